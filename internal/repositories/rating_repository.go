package repositories

import "storerate/internal/models"

// RatingRepository defines the interface for rating data access. Every
// mutation recomputes the parent store's average rating inside the same
// transaction: either both commit or neither does.
type RatingRepository interface {
	// SubmitOrUpdate inserts a rating for (userID, storeID) or overwrites
	// the existing one. The bool result reports whether a new row was
	// created. Fails with apperrors.ErrNotFound if the store does not exist.
	SubmitOrUpdate(userID, storeID string, value int) (*models.Rating, bool, error)

	// Delete removes the rating for (userID, storeID). Fails with
	// apperrors.ErrNotFound when no such rating exists.
	Delete(userID, storeID string) error

	// ListForStore returns all ratings for a store with the rating user
	// preloaded.
	ListForStore(storeID string) ([]models.Rating, error)

	CountAll() (int64, error)
}

package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"storerate/internal/apperrors"
	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRatingRepository is a GORM implementation of RatingRepository. Every
// mutation runs as a single transaction: lock the store row, apply the
// rating change, recompute the store's average. A reader can therefore
// never observe a rating change without the matching average.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

// SubmitOrUpdate inserts the rating for (userID, storeID) or overwrites the
// existing row's value. The store row lock serializes concurrent mutations
// for the same store, so two submissions can never both recompute from a
// stale rating set. The unique (user_id, store_id) index backs this up
// against duplicate-insert races.
func (r *GORMRatingRepository) SubmitOrUpdate(userID, storeID string, value int) (*models.Rating, bool, error) {
	var rating models.Rating
	var created bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockStoreRow(tx, storeID); err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND store_id = ?", userID, storeID).First(&rating).Error
		switch {
		case err == nil:
			rating.Value = value
			if err := tx.Model(&rating).Update("rating", value).Error; err != nil {
				return fmt.Errorf("failed to update rating %s: %w", rating.ID, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			rating = models.Rating{
				ID:      uuid.New().String(),
				UserID:  userID,
				StoreID: storeID,
				Value:   value,
			}
			if err := tx.Create(&rating).Error; err != nil {
				return fmt.Errorf("failed to create rating: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up rating for user %s, store %s: %w", userID, storeID, err)
		}

		_, err = RecalcStoreAverage(tx, storeID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return &rating, created, nil
}

// Delete removes the rating for (userID, storeID) and recomputes the
// store's average in the same transaction. Repeat calls fail with
// apperrors.ErrNotFound.
func (r *GORMRatingRepository) Delete(userID, storeID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockStoreRow(tx, storeID); err != nil {
			return err
		}

		// Hard delete: a soft-deleted row would keep occupying the unique
		// (user_id, store_id) slot and block re-rating.
		res := tx.Unscoped().Where("user_id = ? AND store_id = ?", userID, storeID).Delete(&models.Rating{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete rating for user %s, store %s: %w", userID, storeID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("rating by user %s for store %s: %w", userID, storeID, apperrors.ErrNotFound)
		}

		_, err := RecalcStoreAverage(tx, storeID)
		return err
	})
}

// ListForStore returns all ratings for a store with the rating user
// preloaded.
func (r *GORMRatingRepository) ListForStore(storeID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Preload("User").Where("store_id = ?", storeID).Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings for store %s: %w", storeID, err)
	}
	return ratings, nil
}

// CountAll returns the total number of ratings.
func (r *GORMRatingRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}

// RecalcStoreAverage recomputes a store's denormalized average from the
// full set of its current ratings and persists it within tx, returning the
// new value (nil when the store has no ratings). A full recompute instead
// of incremental arithmetic keeps the value exact under any interleaving
// of creates, updates and deletes.
func RecalcStoreAverage(tx *gorm.DB, storeID string) (*float64, error) {
	var avg sql.NullFloat64
	err := tx.Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average for store %s: %w", storeID, err)
	}

	var value *float64
	if avg.Valid {
		v := avg.Float64
		value = &v
	}

	if err := tx.Model(&models.Store{}).Where("id = ?", storeID).Update("average_rating", value).Error; err != nil {
		return nil, fmt.Errorf("failed to persist average for store %s: %w", storeID, err)
	}
	return value, nil
}

// lockStoreRow takes a row lock on the store so concurrent rating mutations
// for the same store serialize their recompute passes. SQLite has no
// FOR UPDATE syntax; its single-writer transactions already serialize.
func lockStoreRow(tx *gorm.DB, storeID string) error {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var store models.Store
	if err := q.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("store with ID %s: %w", storeID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock store %s: %w", storeID, err)
	}
	return nil
}

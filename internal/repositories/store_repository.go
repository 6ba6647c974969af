package repositories

import "storerate/internal/models"

// StoreFilter narrows store listings; both fields are optional
// case-insensitive substring matches.
type StoreFilter struct {
	Name    string
	Address string
}

// StoreRepository defines the interface for store data access. The
// denormalized average_rating column is deliberately absent here: it is
// written only inside the rating repository's transactions.
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id string) (*models.Store, error)
	Find(filter StoreFilter) ([]models.Store, error)
	FindWithRatings(filter StoreFilter) ([]models.Store, error)
	CountAll() (int64, error)
}

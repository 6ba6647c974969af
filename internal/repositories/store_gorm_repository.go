package repositories

import (
	"errors"
	"fmt"

	"storerate/internal/apperrors"
	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.Create(store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("store email %s: %w", store.Email, apperrors.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a single store by its ID from the database.
func (r *GORMStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by ID %s: %w", id, err)
	}
	return &store, nil
}

// Find retrieves stores matching the filter.
func (r *GORMStoreRepository) Find(filter StoreFilter) ([]models.Store, error) {
	var stores []models.Store
	if err := applyStoreFilter(r.db, filter).Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to find stores: %w", err)
	}
	return stores, nil
}

// FindWithRatings retrieves stores matching the filter with their ratings
// and the rating users preloaded, for the dashboard listing.
func (r *GORMStoreRepository) FindWithRatings(filter StoreFilter) ([]models.Store, error) {
	var stores []models.Store
	q := applyStoreFilter(r.db, filter).Preload("Ratings").Preload("Ratings.User")
	if err := q.Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to find stores with ratings: %w", err)
	}
	return stores, nil
}

// CountAll returns the total number of stores.
func (r *GORMStoreRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return count, nil
}

// applyStoreFilter adds case-insensitive substring conditions for the
// optional name/address filters. lower(...) LIKE lower(...) behaves the
// same on postgres and sqlite, unlike ILIKE.
func applyStoreFilter(db *gorm.DB, filter StoreFilter) *gorm.DB {
	q := db.Model(&models.Store{})
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Address != "" {
		q = q.Where("LOWER(address) LIKE LOWER(?)", "%"+filter.Address+"%")
	}
	return q
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

// StoreService handles business logic related to stores.
type StoreService struct {
	storeRepo repositories.StoreRepository
	userRepo  repositories.UserRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(storeRepo repositories.StoreRepository, userRepo repositories.UserRepository) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		userRepo:  userRepo,
	}
}

// CreateStoreInput carries an admin store-creation request.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID string
}

// CreateStore persists a new store. The owner must exist but is not
// required to hold the STORE_OWNER role; that is convention, not a rule.
// A new store starts with no ratings and a nil average.
func (s *StoreService) CreateStore(in CreateStoreInput) (*models.Store, error) {
	if in.Name == "" || in.Email == "" || in.Address == "" || in.OwnerID == "" {
		return nil, fmt.Errorf("name, email, address and ownerId are required: %w", apperrors.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByID(in.OwnerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("owner %s does not exist: %w", in.OwnerID, apperrors.ErrInvalidInput)
		}
		return nil, err
	}

	store := &models.Store{
		Name:    in.Name,
		Email:   strings.ToLower(in.Email),
		Address: in.Address,
		OwnerID: in.OwnerID,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetStoreByID retrieves a single store by its ID.
func (s *StoreService) GetStoreByID(id string) (*models.Store, error) {
	return s.storeRepo.GetByID(id)
}

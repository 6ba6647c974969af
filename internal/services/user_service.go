package services

import (
	"storerate/internal/models"
	"storerate/internal/repositories"
)

// UserService handles the admin-facing user listing and platform stats.
type UserService struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

// ListUsers retrieves users matching the filter.
func (s *UserService) ListUsers(filter repositories.UserFilter) ([]models.User, error) {
	return s.userRepo.Find(filter)
}

// PlatformStats is the admin statistics payload.
type PlatformStats struct {
	UserCount   int64 `json:"userCount"`
	StoreCount  int64 `json:"storeCount"`
	RatingCount int64 `json:"ratingCount"`
}

// GetPlatformStats counts users, stores and ratings.
func (s *UserService) GetPlatformStats() (*PlatformStats, error) {
	userCount, err := s.userRepo.CountAll()
	if err != nil {
		return nil, err
	}
	storeCount, err := s.storeRepo.CountAll()
	if err != nil {
		return nil, err
	}
	ratingCount, err := s.ratingRepo.CountAll()
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		UserCount:   userCount,
		StoreCount:  storeCount,
		RatingCount: ratingCount,
	}, nil
}

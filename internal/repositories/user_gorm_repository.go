package repositories

import (
	"errors"
	"fmt"

	"storerate/internal/apperrors"
	"storerate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. The unique index on email is
// the safety net against concurrent duplicate registrations.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user email %s: %w", user.Email, apperrors.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// UpdatePasswordHash overwrites the credential hash for a user.
func (r *GORMUserRepository) UpdatePasswordHash(userID, hash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

// Find lists users matching the filter. Empty filter fields are ignored;
// present ones match exactly, mirroring the admin dashboard search.
func (r *GORMUserRepository) Find(filter UserFilter) ([]models.User, error) {
	q := r.db.Model(&models.User{})
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}
	if filter.Address != "" {
		q = q.Where("address = ?", filter.Address)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return users, nil
}

// CountAll returns the total number of users.
func (r *GORMUserRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

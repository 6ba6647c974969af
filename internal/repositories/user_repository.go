package repositories

import "storerate/internal/models"

// UserFilter narrows admin user listings. All fields are exact-match and
// optional; Role has already been validated by the caller.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    models.Role
}

// UserRepository defines the interface for user data access. Email
// uniqueness is enforced by the storage layer (unique index), so concurrent
// registrations with the same address cannot both succeed.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdatePasswordHash(userID, hash string) error
	Find(filter UserFilter) ([]models.User, error)
	CountAll() (int64, error)
}

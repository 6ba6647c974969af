package services_test

import (
	"fmt"
	"testing"
	"time"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHash(userID, hash string) error {
	args := m.Called(userID, hash)
	return args.Error(0)
}

func (m *MockUserRepository) Find(filter repositories.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) CountAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func notFoundErr() error {
	return fmt.Errorf("no such user: %w", apperrors.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	mockRepo.On("GetByEmail", "test@example.com").Return(nil, notFoundErr()).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "Sup3rSecret!",
		Address:  "1 Main St",
	})
	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email, "email must be lowercased")
	assert.Equal(t, models.RoleUser, user.Role, "role defaults to USER")
	assert.NotEqual(t, "Sup3rSecret!", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Sup3rSecret!")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	existing := &models.User{ID: "user-1", Email: "taken@example.com"}
	mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil).Once()

	_, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Someone Else",
		Email:    "taken@example.com",
		Password: "Sup3rSecret!",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_InvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	_, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Sup3rSecret!",
		Role:     "SUPERUSER",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_PasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Sup3rSecret!", true},
		{"A!aaaaaa", true},            // exactly 8
		{"A!aaaaaaaaaaaaaa", true},    // exactly 16
		{"Sh0rt!A", false},            // 7 chars
		{"A!aaaaaaaaaaaaaaa", false},  // 17 chars
		{"nouppercase1!", false},      // no uppercase
		{"NoSpecialChar123", false},   // no special
		{"", false},
	}
	for _, tc := range cases {
		err := services.ValidatePassword(tc.password)
		if tc.ok {
			assert.NoError(t, err, "password %q should pass", tc.password)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "password %q should fail", tc.password)
		}
	}
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           "user-1",
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleStoreOwner,
	}

	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser("Test@Example.com", "Sup3rSecret!")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	// The token round-trips into a session carrying identity and role.
	sess, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "test@example.com", sess.Email)
	assert.Equal(t, models.RoleStoreOwner, sess.Role)
	assert.Equal(t, "Test User", sess.Name)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser_InvalidCredentials(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Unknown email.
	mockRepo.On("GetByEmail", "missing@example.com").Return(nil, notFoundErr()).Once()
	_, _, err := authService.LoginUser("missing@example.com", "Sup3rSecret!")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	// Wrong password.
	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "test@example.com", PasswordHash: string(hash)}
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	_, _, err = authService.LoginUser("test@example.com", "WrongPass1!")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "user-1",
		"email": "test@example.com",
		"role":  "USER",
		"name":  "Test User",
		"exp":   time.Now().Add(-time.Hour).Unix(),
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)

	_, err = authService.ValidateToken(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAuthService_ValidateToken_BadSignatureAndGarbage(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := forged.SignedString([]byte("some_other_secret"))
	assert.NoError(t, err)

	_, err = authService.ValidateToken(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Policy violation never reaches the repository.
	err := authService.UpdatePassword("user-1", "weak")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything)

	mockRepo.On("UpdatePasswordHash", "user-1", mock.AnythingOfType("string")).Return(nil).Once()
	err = authService.UpdatePassword("user-1", "N3wSecret!")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storerate/internal/apperrors"
	"storerate/internal/authz"
	"storerate/internal/models"
	"storerate/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// passwordSpecials is the fixed special-character set the password policy
// requires at least one of.
const passwordSpecials = "!@#$%^&*"

// AuthService handles registration, login, password updates and the
// issuing/verification of session tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService. Tokens are valid for a fixed
// hour; expiry forces re-login, there is no refresh or revocation.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: time.Hour,
	}
}

// RegisterInput carries a registration request into the service.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     string // optional, defaults to USER
}

// RegisterUser validates the input, hashes the password and persists the
// new user. The storage layer's unique email index closes the race between
// concurrent registrations with the same address.
func (s *AuthService) RegisterUser(in RegisterInput) (*models.User, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrInvalidInput)
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(in.Email)
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s: %w", email, apperrors.ErrDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Address:      in.Address,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// LoginUser authenticates a user and returns a signed session token plus
// the user profile. Invalid email and invalid password are deliberately
// indistinguishable to the caller.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(email))
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"name":  user.Name,
		"exp":   time.Now().Add(s.tokenDurat).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// UpdatePassword applies the password policy and overwrites the user's
// credential hash. Already-issued tokens stay valid until they expire.
func (s *AuthService) UpdatePassword(userID, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(userID, string(hash))
}

// ValidateToken parses and verifies a session token, returning the session
// it asserts. The session is NOT re-checked against current user state: a
// role change only takes effect on the next login.
func (s *AuthService) ValidateToken(tokenString string) (*authz.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("token expired: %w", apperrors.ErrUnauthenticated)
		}
		log.Debug().Err(err).Msg("token validation failed")
		return nil, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthenticated)
	}

	role, err := models.ParseRole(claimString(claims, "role"))
	if err != nil {
		return nil, fmt.Errorf("invalid role claim: %w", apperrors.ErrUnauthenticated)
	}

	sess := &authz.Session{
		UserID: claimString(claims, "id"),
		Email:  claimString(claims, "email"),
		Name:   claimString(claims, "name"),
		Role:   role,
	}
	if sess.UserID == "" {
		return nil, fmt.Errorf("token missing user id: %w", apperrors.ErrUnauthenticated)
	}
	return sess, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

// ValidatePassword enforces the platform password policy: 8-16 characters,
// at least one uppercase letter and at least one of !@#$%^&*. Applies at
// registration and at password update.
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 16 {
		return fmt.Errorf("password must be 8-16 characters: %w", apperrors.ErrInvalidInput)
	}
	var hasUpper, hasSpecial bool
	for _, ch := range password {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, ch):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must include an uppercase letter: %w", apperrors.ErrInvalidInput)
	}
	if !hasSpecial {
		return fmt.Errorf("password must include one of %s: %w", passwordSpecials, apperrors.ErrInvalidInput)
	}
	return nil
}

package handlers

import (
	"fmt"

	"storerate/internal/middleware"
	"storerate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the auth routes that require a session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Put("/auth/update-password", h.HandleUpdatePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address"`
	Role     string `json:"role" validate:"omitempty"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	user, err := h.authService.RegisterUser(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("registration failed")
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Debug().Str("email", req.Email).Msg("login rejected")
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// UpdatePasswordRequest represents the request body for a password change.
type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// HandleUpdatePassword changes the caller's own password.
func (h *AuthHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	if err := h.authService.UpdatePassword(sess.UserID, req.NewPassword); err != nil {
		log.Warn().Err(err).Str("userId", sess.UserID).Msg("password update failed")
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Validation failed"
	}
	msg := "Validation failed:"
	for _, e := range validationErrors {
		msg += fmt.Sprintf(" field '%s' failed on the '%s' tag;", e.Field(), e.Tag())
	}
	return msg
}

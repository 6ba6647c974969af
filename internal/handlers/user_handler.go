package handlers

import (
	"storerate/internal/apperrors"
	"storerate/internal/authz"
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// UserHandler handles the admin-only user endpoints.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes behind the auth middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Get("/stats", h.HandleStats)
}

// HandleListUsers lists users with optional exact-match filters. Admin
// only.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if err := authz.Authorize(sess, authz.ActionListUsers, authz.Resource{}); err != nil {
		return respondError(c, err)
	}

	filter := repositories.UserFilter{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Address: c.Query("address"),
	}
	if raw := c.Query("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": apperrors.ErrInvalidInput.Error() + ": " + err.Error(),
			})
		}
		filter.Role = role
	}

	users, err := h.userService.ListUsers(filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return respondError(c, err)
	}
	return c.JSON(users)
}

// HandleStats serves the platform counters. Admin only.
func (h *UserHandler) HandleStats(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if err := authz.Authorize(sess, authz.ActionViewStats, authz.Resource{}); err != nil {
		return respondError(c, err)
	}

	stats, err := h.userService.GetPlatformStats()
	if err != nil {
		log.Error().Err(err).Msg("failed to compute stats")
		return respondError(c, err)
	}
	return c.JSON(stats)
}

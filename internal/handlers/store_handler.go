package handlers

import (
	"storerate/internal/authz"
	"storerate/internal/middleware"
	"storerate/internal/repositories"
	"storerate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	storeService  *services.StoreService
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService, ratingService *services.RatingService) *StoreHandler {
	return &StoreHandler{
		storeService:  storeService,
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the store routes. All of them sit behind the
// auth middleware.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", h.HandleListStores)
	storeRoutes.Post("/", h.HandleCreateStore)
	storeRoutes.Get("/:id/ratings", h.HandleStoreRatings)
}

// HandleListStores lists all stores with ratings, the stored average and
// the caller's personal rating, optionally filtered by name/address
// substring.
func (h *StoreHandler) HandleListStores(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if err := authz.Authorize(sess, authz.ActionListStores, authz.Resource{}); err != nil {
		return respondError(c, err)
	}

	filter := repositories.StoreFilter{
		Name:    c.Query("name"),
		Address: c.Query("address"),
	}
	stores, err := h.ratingService.ListStoresWithPersonalRating(sess.UserID, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list stores")
		return respondError(c, err)
	}
	return c.JSON(stores)
}

// CreateStoreRequest represents the request body for store creation.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	OwnerID string `json:"ownerId" validate:"required"`
}

// HandleCreateStore creates a new store. Admin only.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if err := authz.Authorize(sess, authz.ActionCreateStore, authz.Resource{}); err != nil {
		return respondError(c, err)
	}

	var req CreateStoreRequest
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

	store, err := h.storeService.CreateStore(services.CreateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("store creation failed")
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Store created successfully",
		"store":   store,
	})
}

// HandleStoreRatings serves the owner/admin ratings dashboard for one
// store. A missing store is a 404 before any ownership check.
func (h *StoreHandler) HandleStoreRatings(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	storeID := c.Params("id")

	store, err := h.storeService.GetStoreByID(storeID)
	if err != nil {
		return respondError(c, err)
	}

	if err := authz.Authorize(sess, authz.ActionViewStoreRatings, authz.Resource{StoreOwnerID: store.OwnerID}); err != nil {
		return respondError(c, err)
	}

	view, err := h.ratingService.ListRatingsForStore(storeID)
	if err != nil {
		log.Error().Err(err).Str("storeId", storeID).Msg("failed to list store ratings")
		return respondError(c, err)
	}
	return c.JSON(view)
}

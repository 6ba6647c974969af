package handlers

import (
	"storerate/internal/authz"
	"storerate/internal/middleware"
	"storerate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the rating routes behind the auth middleware.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	ratingRoutes := router.Group("/ratings")
	ratingRoutes.Post("/", h.HandleSubmitRating)
	ratingRoutes.Delete("/:storeId", h.HandleDeleteRating)
}

// SubmitRatingRequest represents the request body for a rating submission.
type SubmitRatingRequest struct {
	StoreID string `json:"storeId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// HandleSubmitRating records or overwrites the caller's rating for a
// store. Ratings are always submitted as oneself; the user id comes from
// the session, never the body. 201 on first submission, 200 on overwrite.
func (h *RatingHandler) HandleSubmitRating(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if err := authz.Authorize(sess, authz.ActionSubmitRating, authz.Resource{}); err != nil {
		return respondError(c, err)
	}

	var req SubmitRatingRequest
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

	rating, created, err := h.ratingService.SubmitOrUpdateRating(sess.UserID, req.StoreID, req.Rating)
	if err != nil {
		log.Warn().Err(err).Str("userId", sess.UserID).Str("storeId", req.StoreID).Msg("rating submission failed")
		return respondError(c, err)
	}

	status := fiber.StatusOK
	message := "Rating updated successfully"
	if created {
		status = fiber.StatusCreated
		message = "Rating submitted successfully"
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"created": created,
		"rating":  rating,
	})
}

// HandleDeleteRating removes the caller's rating for a store. Repeat
// deletions 404.
func (h *RatingHandler) HandleDeleteRating(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if err := authz.Authorize(sess, authz.ActionDeleteRating, authz.Resource{}); err != nil {
		return respondError(c, err)
	}

	storeID := c.Params("storeId")
	if err := h.ratingService.DeleteRating(sess.UserID, storeID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Rating deleted successfully",
	})
}

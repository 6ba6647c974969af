package handlers

import (
	"errors"

	"storerate/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps the service error taxonomy to HTTP status codes.
// Duplicate email is reported as 400, matching the public API contract.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrDuplicateEmail):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// respondError writes the error as JSON with the mapped status. Internal
// errors are masked; typed failures surface their message verbatim.
func respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

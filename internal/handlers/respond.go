package handlers

import (
	"errors"
	"fmt"
	"log"

	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps classified service errors onto HTTP statuses:
// ValidationError -> 400 with field-keyed messages, ErrPermissionDenied ->
// 403, ErrNotFound -> 404, anything else -> 500.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  vErr.Fields,
		})
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Permission denied",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"error":   err.Error(),
		})
	default:
		log.Printf("Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

// respondBadBody is the reply for an unparseable request body.
func respondBadBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// respondValidation converts validator tag failures into the same
// field-keyed 400 shape as service-side validation errors.
func respondValidation(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	} else {
		errorMessages["body"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// NotFoundHandler is the catch-all for unknown endpoints; it answers with
// the JSON error envelope instead of Fiber's plain-text default.
func NotFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":       "Endpoint not found",
		"status_code": fiber.StatusNotFound,
		"message":     "The endpoint you requested does not exist. Please check the URL.",
	})
}

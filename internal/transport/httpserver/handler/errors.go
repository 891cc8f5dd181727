// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movies-api/internal/domain"
	"movies-api/internal/transport/httpserver/dto"
	"movies-api/internal/validator"
)

// invalidParams answers 422 for a query that could not be parsed.
func invalidParams(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Error: "invalid query parameters",
		Code:  "INVALID_PARAMS",
	})
}

// validationFailed answers 422 with the failing fields.
func validationFailed(c *fiber.Ctx, err error) error {
	resp := dto.ErrorResponse{
		Error: "validation failed",
		Code:  "VALIDATION_ERROR",
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = verrs
	}

	return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
}

// notFound answers 404 for an empty result.
func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: what + " not found",
		Code:  "NOT_FOUND",
	})
}

// serviceError maps a service failure to 503 when a backend is unavailable and
// to 500 otherwise.
func serviceError(c *fiber.Ctx, logger *zap.Logger, op string, err error) error {
	if errors.Is(err, domain.ErrBackendUnavailable) {
		logger.Warn(op+" failed: backend unavailable", zap.Error(err))

		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "search backend unavailable",
			Code:  "BACKEND_UNAVAILABLE",
		})
	}

	logger.Error(op+" failed", zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: op + " failed",
		Code:  "INTERNAL_ERROR",
	})
}

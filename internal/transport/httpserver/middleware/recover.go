package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movies-api/internal/transport/httpserver/dto"
)

// Recover turns a handler panic into a 500 response and an error log entry
// carrying the stack.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("request_id", requestID(c)),
					zap.String("path", c.Path()),
					zap.Stack("stack"),
				)

				err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: "internal server error",
					Code:  "PANIC",
				})
			}
		}()

		return c.Next()
	}
}

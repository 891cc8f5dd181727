package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movies-api/internal/app/service"
	"movies-api/internal/transport/httpserver/dto"
)

// CacheWarmer refreshes hot cache entries on demand. Implemented by
// service.CacheWarmer.
type CacheWarmer interface {
	WarmAll(ctx context.Context) []service.WarmResult
	Warm(ctx context.Context, name string) (*service.WarmResult, error)
	TargetNames() []string
}

// AdminHandler handles operator HTTP requests.
type AdminHandler struct {
	warmer CacheWarmer
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(warmer CacheWarmer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		warmer: warmer,
		logger: logger,
	}
}

// WarmAll handles POST /api/v1/admin/warmup
func (h *AdminHandler) WarmAll(c *fiber.Ctx) error {
	h.logger.Info("manual cache warm-up triggered")

	results := h.warmer.WarmAll(c.UserContext())

	return c.JSON(dto.FromWarmResults(results))
}

// WarmTarget handles POST /api/v1/admin/warmup/:target
func (h *AdminHandler) WarmTarget(c *fiber.Ctx) error {
	name := c.Params("target")

	result, err := h.warmer.Warm(c.UserContext(), name)
	if result == nil && err == nil {
		return notFound(c, "warm-up target "+name)
	}
	if err != nil {
		h.logger.Warn("cache warm-up failed", zap.String("target", name), zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(dto.FromWarmResult(*result))
	}

	return c.JSON(dto.FromWarmResult(*result))
}

// Targets handles GET /api/v1/admin/warmup/targets
func (h *AdminHandler) Targets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"targets": h.warmer.TargetNames(),
	})
}

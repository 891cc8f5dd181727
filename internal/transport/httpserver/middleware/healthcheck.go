// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"go.uber.org/zap"
)

// Pinger is a backend the service depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (every backend answers a ping within timeout)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(backends map[string]Pinger, timeout time.Duration, logger *zap.Logger) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()

			ready := true
			for name, b := range backends {
				if err := b.Ping(ctx); err != nil {
					logger.Warn("readiness check failed", zap.String("backend", name), zap.Error(err))
					ready = false
				}
			}

			return ready
		},
	})
}

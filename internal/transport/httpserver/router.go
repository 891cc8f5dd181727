// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"movies-api/internal/metrics"
	"movies-api/internal/transport/httpserver/dto"
	"movies-api/internal/transport/httpserver/handler"
	"movies-api/internal/transport/httpserver/middleware"
	"movies-api/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
	HealthTimeout  time.Duration
}

// Services are the read APIs and operator hooks the routes are served by.
type Services struct {
	Films   handler.FilmReader
	Genres  handler.GenreReader
	Persons handler.PersonReader
	Warmer  handler.CacheWarmer // nil disables the admin routes
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	svcs Services,
	backends map[string]middleware.Pinger,
	gatherer prometheus.Gatherer,
	m *metrics.Metrics,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 2 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               "movies-api",
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
	})

	// Health checks first so probes answer even when the stack below is saturated.
	app.Use(middleware.NewHealthCheck(backends, cfg.HealthTimeout, logger))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.Metrics(m))
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	app.Use(compress.New())

	registerRoutes(app,
		handler.NewFilmHandler(svcs.Films, v, logger),
		handler.NewGenreHandler(svcs.Genres, v, logger),
		handler.NewPersonHandler(svcs.Persons, v, logger),
	)
	if svcs.Warmer != nil {
		registerAdminRoutes(app, handler.NewAdminHandler(svcs.Warmer, logger))
	}

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	films *handler.FilmHandler,
	genres *handler.GenreHandler,
	persons *handler.PersonHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	f := v1.Group("/films")
	f.Get("/", films.List)
	f.Get("/search", films.Search)
	f.Get("/:film_id", films.GetByID)

	g := v1.Group("/genres")
	g.Get("/", genres.List)
	g.Get("/:genre_id", genres.GetByID)

	p := v1.Group("/persons")
	p.Get("/search", persons.Search)
	p.Get("/:person_id", persons.GetByID)
	p.Get("/:person_id/film", persons.Films)
}

func registerAdminRoutes(app *fiber.App, admin *handler.AdminHandler) {
	a := app.Group("/api/v1/admin")
	a.Get("/warmup/targets", admin.Targets)
	a.Post("/warmup", admin.WarmAll)
	a.Post("/warmup/:target", admin.WarmTarget)
}

// errorHandler renders errors that escape handlers, mostly unknown routes and
// methods. 404s are logged at DEBUG level, 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		fields := []zap.Field{
			zap.Error(err),
			zap.Int("status", code),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
		}
		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("route not found", fields...)
		case code >= fiber.StatusInternalServerError:
			logger.Error("server error", fields...)
		default:
			logger.Warn("client error", fields...)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server, waiting at most timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.ShutdownWithTimeout(timeout)
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movies-api/internal/domain"
	"movies-api/internal/transport/httpserver/dto"
	"movies-api/internal/validator"
)

// GenreReader is the genre read API. Implemented by service.GenreService.
type GenreReader interface {
	GetByID(ctx context.Context, id string) (*domain.Genre, error)
	List(ctx context.Context, page domain.Page) ([]domain.Genre, error)
}

// GenreHandler handles genre HTTP requests.
type GenreHandler struct {
	genres    GenreReader
	validator *validator.Validator
	logger    *zap.Logger
}

// NewGenreHandler creates a new GenreHandler.
func NewGenreHandler(genres GenreReader, v *validator.Validator, logger *zap.Logger) *GenreHandler {
	return &GenreHandler{
		genres:    genres,
		validator: v,
		logger:    logger,
	}
}

// GetByID handles GET /api/v1/genres/:genre_id
func (h *GenreHandler) GetByID(c *fiber.Ctx) error {
	id, err := validator.ParseID("genre_id", c.Params("genre_id"))
	if err != nil {
		return validationFailed(c, err)
	}

	genre, err := h.genres.GetByID(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.logger, "get genre", err)
	}
	if genre == nil {
		return notFound(c, "genre")
	}

	return c.JSON(dto.FromGenre(genre))
}

// List handles GET /api/v1/genres
func (h *GenreHandler) List(c *fiber.Ctx) error {
	req := dto.NewPageRequest()
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	genres, err := h.genres.List(c.UserContext(), req.ToPage())
	if err != nil {
		return serviceError(c, h.logger, "genre listing", err)
	}
	if len(genres) == 0 {
		return notFound(c, "genres")
	}

	return c.JSON(dto.FromGenres(genres))
}

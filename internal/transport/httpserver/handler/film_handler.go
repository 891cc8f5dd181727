package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movies-api/internal/domain"
	"movies-api/internal/transport/httpserver/dto"
	"movies-api/internal/validator"
)

// FilmReader is the film read API. Implemented by service.FilmService.
type FilmReader interface {
	GetByID(ctx context.Context, id string) (*domain.Film, error)
	Search(ctx context.Context, query string, page domain.Page) ([]domain.Film, error)
	List(ctx context.Context, sort domain.Sort, page domain.Page) ([]domain.Film, error)
	ListByGenre(ctx context.Context, genreID string, sort domain.Sort, page domain.Page) ([]domain.Film, error)
}

// FilmHandler handles film HTTP requests.
type FilmHandler struct {
	films     FilmReader
	validator *validator.Validator
	logger    *zap.Logger
}

// NewFilmHandler creates a new FilmHandler.
func NewFilmHandler(films FilmReader, v *validator.Validator, logger *zap.Logger) *FilmHandler {
	return &FilmHandler{
		films:     films,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/v1/films/search
func (h *FilmHandler) Search(c *fiber.Ctx) error {
	req := dto.NewSearchRequest()
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	films, err := h.films.Search(c.UserContext(), req.Query, req.ToPage())
	if err != nil {
		return serviceError(c, h.logger, "film search", err)
	}
	if len(films) == 0 {
		return notFound(c, "films")
	}

	return c.JSON(dto.FromFilms(films))
}

// GetByID handles GET /api/v1/films/:film_id
func (h *FilmHandler) GetByID(c *fiber.Ctx) error {
	id, err := validator.ParseID("film_id", c.Params("film_id"))
	if err != nil {
		return validationFailed(c, err)
	}

	film, err := h.films.GetByID(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.logger, "get film", err)
	}
	if film == nil {
		return notFound(c, "film")
	}

	return c.JSON(dto.FromFilm(film))
}

// List handles GET /api/v1/films
func (h *FilmHandler) List(c *fiber.Ctx) error {
	req := dto.NewFilmListRequest()
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	var (
		films []domain.Film
		err   error
	)
	if req.GenreID != "" {
		genreID, perr := validator.ParseID("genre_id", req.GenreID)
		if perr != nil {
			return validationFailed(c, perr)
		}
		films, err = h.films.ListByGenre(c.UserContext(), genreID, req.ToSort(), req.ToPage())
	} else {
		films, err = h.films.List(c.UserContext(), req.ToSort(), req.ToPage())
	}
	if err != nil {
		return serviceError(c, h.logger, "film listing", err)
	}
	if len(films) == 0 {
		return notFound(c, "films")
	}

	return c.JSON(dto.FromFilms(films))
}

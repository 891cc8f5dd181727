package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"movies-api/internal/domain"
	"movies-api/internal/transport/httpserver/dto"
	"movies-api/internal/validator"
)

// PersonReader is the person read API. Implemented by service.PersonService.
type PersonReader interface {
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	Search(ctx context.Context, query string, page domain.Page) ([]domain.Person, error)
	Films(ctx context.Context, personID string) ([]domain.Film, error)
}

// PersonHandler handles person HTTP requests.
type PersonHandler struct {
	persons   PersonReader
	validator *validator.Validator
	logger    *zap.Logger
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(persons PersonReader, v *validator.Validator, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		persons:   persons,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/v1/persons/search
func (h *PersonHandler) Search(c *fiber.Ctx) error {
	req := dto.NewSearchRequest()
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	persons, err := h.persons.Search(c.UserContext(), req.Query, req.ToPage())
	if err != nil {
		return serviceError(c, h.logger, "person search", err)
	}
	if len(persons) == 0 {
		return notFound(c, "persons")
	}

	return c.JSON(dto.FromPersons(persons))
}

// GetByID handles GET /api/v1/persons/:person_id
func (h *PersonHandler) GetByID(c *fiber.Ctx) error {
	id, err := validator.ParseID("person_id", c.Params("person_id"))
	if err != nil {
		return validationFailed(c, err)
	}

	person, err := h.persons.GetByID(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.logger, "get person", err)
	}
	if person == nil {
		return notFound(c, "person")
	}

	return c.JSON(dto.FromPerson(person))
}

// Films handles GET /api/v1/persons/:person_id/film
func (h *PersonHandler) Films(c *fiber.Ctx) error {
	id, err := validator.ParseID("person_id", c.Params("person_id"))
	if err != nil {
		return validationFailed(c, err)
	}

	films, err := h.persons.Films(c.UserContext(), id)
	if err != nil {
		return serviceError(c, h.logger, "person films", err)
	}
	if len(films) == 0 {
		return notFound(c, "films")
	}

	return c.JSON(dto.FromFilms(films))
}

package service

import (
	"context"

	"go.uber.org/zap"

	"movies-api/internal/domain"
)

// PersonService handles person lookups and the films a person took part in.
type PersonService struct {
	persons *ReadThrough[domain.Person]
	films   *ReadThrough[domain.Film]
	logger  *zap.Logger
}

// NewPersonService creates a new PersonService. Films are resolved through the
// film read-through so they share its cache.
func NewPersonService(persons *ReadThrough[domain.Person], films *ReadThrough[domain.Film], logger *zap.Logger) *PersonService {
	return &PersonService{
		persons: persons,
		films:   films,
		logger:  logger,
	}
}

// GetByID returns a person, or nil when there is none with this id.
func (s *PersonService) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	return s.persons.GetByID(ctx, id)
}

// Search runs a fuzzy full-name search.
func (s *PersonService) Search(ctx context.Context, query string, page domain.Page) ([]domain.Person, error) {
	s.logger.Debug("searching persons",
		zap.String("query", query),
		zap.Int("page_size", page.Size),
		zap.Int("page_number", page.Number),
	)

	return s.persons.Search(ctx, query, page)
}

// Films returns the films of a person in the order the person document lists them.
// An unknown person and a person without films both yield an empty list.
func (s *PersonService) Films(ctx context.Context, personID string) ([]domain.Film, error) {
	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return []domain.Film{}, nil
	}

	ids := person.FilmIDs()
	if len(ids) == 0 {
		s.logger.Debug("person has no films", zap.String("person_id", personID))

		return []domain.Film{}, nil
	}

	return s.films.GetByIDs(ctx, ids)
}

// Wait blocks until pending cache writes have finished.
func (s *PersonService) Wait() {
	s.persons.Wait()
	s.films.Wait()
}

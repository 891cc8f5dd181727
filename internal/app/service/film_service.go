package service

import (
	"context"

	"go.uber.org/zap"

	"movies-api/internal/domain"
)

// DefaultFilmSort orders film listings by rating, best first.
const DefaultFilmSort = "-imdb_rating"

// FilmService handles film lookups.
type FilmService struct {
	films  *ReadThrough[domain.Film]
	logger *zap.Logger
}

// NewFilmService creates a new FilmService.
func NewFilmService(films *ReadThrough[domain.Film], logger *zap.Logger) *FilmService {
	return &FilmService{
		films:  films,
		logger: logger,
	}
}

// GetByID returns a film, or nil when there is none with this id.
func (s *FilmService) GetByID(ctx context.Context, id string) (*domain.Film, error) {
	return s.films.GetByID(ctx, id)
}

// Search runs a fuzzy title search.
func (s *FilmService) Search(ctx context.Context, query string, page domain.Page) ([]domain.Film, error) {
	s.logger.Debug("searching films",
		zap.String("query", query),
		zap.Int("page_size", page.Size),
		zap.Int("page_number", page.Number),
	)

	return s.films.Search(ctx, query, page)
}

// List returns a page of all films.
func (s *FilmService) List(ctx context.Context, sort domain.Sort, page domain.Page) ([]domain.Film, error) {
	return s.films.List(ctx, "", sort, page)
}

// ListByGenre returns a page of the films tagged with genreID.
func (s *FilmService) ListByGenre(ctx context.Context, genreID string, sort domain.Sort, page domain.Page) ([]domain.Film, error) {
	return s.films.List(ctx, genreID, sort, page)
}

// GetByIDs returns the films with the given ids, in id order.
func (s *FilmService) GetByIDs(ctx context.Context, ids []string) ([]domain.Film, error) {
	return s.films.GetByIDs(ctx, ids)
}

// Wait blocks until pending cache writes have finished.
func (s *FilmService) Wait() {
	s.films.Wait()
}

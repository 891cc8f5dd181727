package service

import (
	"context"

	"go.uber.org/zap"

	"movies-api/internal/domain"
)

// GenreService handles genre lookups. Genre listings are unsorted.
type GenreService struct {
	genres *ReadThrough[domain.Genre]
	logger *zap.Logger
}

// NewGenreService creates a new GenreService.
func NewGenreService(genres *ReadThrough[domain.Genre], logger *zap.Logger) *GenreService {
	return &GenreService{
		genres: genres,
		logger: logger,
	}
}

// GetByID returns a genre, or nil when there is none with this id.
func (s *GenreService) GetByID(ctx context.Context, id string) (*domain.Genre, error) {
	return s.genres.GetByID(ctx, id)
}

// List returns a page of all genres.
func (s *GenreService) List(ctx context.Context, page domain.Page) ([]domain.Genre, error) {
	return s.genres.List(ctx, "", domain.Sort{}, page)
}

// Wait blocks until pending cache writes have finished.
func (s *GenreService) Wait() {
	s.genres.Wait()
}

// Package domain contains the catalog entities and the ports the core talks through.
// This package has no external dependencies (only stdlib).
package domain

import (
	"fmt"
)

// Rating bounds for Film.IMDBRating.
const (
	MinRating = 0.0
	MaxRating = 100.0
)

// IDName is a reference to another catalog entity embedded in a film document.
type IDName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Film is a catalog item as stored in the movies index.
type Film struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	IMDBRating  *float64 `json:"imdb_rating"`
	Description string   `json:"description,omitempty"`
	Genres      []IDName `json:"genres"`
	Actors      []IDName `json:"actors"`
	Writers     []IDName `json:"writers"`
	Directors   []IDName `json:"directors"`
}

// Validate enforces the rating invariant. A missing rating is valid.
func (f *Film) Validate() error {
	if f.IMDBRating == nil {
		return nil
	}

	return ValidateRating(*f.IMDBRating)
}

// HasGenre reports whether the film is tagged with the given genre id.
func (f *Film) HasGenre(genreID string) bool {
	for _, g := range f.Genres {
		if g.ID == genreID {
			return true
		}
	}

	return false
}

// ValidateRating returns ErrInvalidRating when r lies outside [MinRating, MaxRating].
func ValidateRating(r float64) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidRating, r, MinRating, MaxRating)
	}

	return nil
}

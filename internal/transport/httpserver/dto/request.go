// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import "movies-api/internal/domain"

// Sort specs accepted by the film listing.
const (
	SortRatingDesc = "-imdb_rating"
	SortRatingAsc  = "imdb_rating"
)

// PageRequest holds the paging query parameters. NewPageRequest fills in the
// defaults; parsed query values override them.
type PageRequest struct {
	PageSize   int `query:"page_size" validate:"min=1,max=100"`
	PageNumber int `query:"page_number" validate:"min=1"`
}

// NewPageRequest returns the first page with the default size.
func NewPageRequest() PageRequest {
	return PageRequest{PageSize: domain.DefaultPageSize, PageNumber: 1}
}

// ToPage converts the request to a domain.Page.
func (r PageRequest) ToPage() domain.Page {
	return domain.Page{Size: r.PageSize, Number: r.PageNumber}
}

// SearchRequest represents the query parameters of a full-text search.
type SearchRequest struct {
	Query      string `query:"query" validate:"required,max=200"`
	PageSize   int    `query:"page_size" validate:"min=1,max=100"`
	PageNumber int    `query:"page_number" validate:"min=1"`
}

// NewSearchRequest returns a SearchRequest with default paging.
func NewSearchRequest() SearchRequest {
	p := NewPageRequest()
	return SearchRequest{PageSize: p.PageSize, PageNumber: p.PageNumber}
}

// ToPage converts the paging parameters to a domain.Page.
func (r SearchRequest) ToPage() domain.Page {
	return domain.Page{Size: r.PageSize, Number: r.PageNumber}
}

// FilmListRequest represents the query parameters of the film listing.
type FilmListRequest struct {
	GenreID    string `query:"genre_id" validate:"omitempty,uuid"`
	Sort       string `query:"sort" validate:"oneof=imdb_rating -imdb_rating"`
	PageSize   int    `query:"page_size" validate:"min=1,max=100"`
	PageNumber int    `query:"page_number" validate:"min=1"`
}

// NewFilmListRequest returns a FilmListRequest sorted by rating, best first.
func NewFilmListRequest() FilmListRequest {
	p := NewPageRequest()
	return FilmListRequest{Sort: SortRatingDesc, PageSize: p.PageSize, PageNumber: p.PageNumber}
}

// ToPage converts the paging parameters to a domain.Page.
func (r FilmListRequest) ToPage() domain.Page {
	return domain.Page{Size: r.PageSize, Number: r.PageNumber}
}

// ToSort converts the sort spec to a domain.Sort.
func (r FilmListRequest) ToSort() domain.Sort {
	return domain.ParseSort(r.Sort)
}

package domain

import (
	"strings"
)

// Paging defaults used by handlers and the warm-up job.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Page is a 1-indexed pagination window.
type Page struct {
	Size   int // Items per page
	Number int // Page number (1-indexed)
}

// DefaultPage returns the first page with the default size.
func DefaultPage() Page {
	return Page{Size: DefaultPageSize, Number: 1}
}

// Offset calculates the search offset for pagination.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the page size (alias for clarity).
func (p Page) Limit() int {
	return p.Size
}

// Sort is a single-field sort order.
// The zero value means "backend order" (no explicit sort).
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort parses a sort spec: "-field" sorts descending, "field" ascending.
// An empty spec yields the zero Sort.
func ParseSort(spec string) Sort {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "-") {
		return Sort{Field: strings.TrimPrefix(spec, "-"), Desc: true}
	}

	return Sort{Field: spec}
}

// IsZero reports whether no sort was requested.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// Direction returns "asc" or "desc".
func (s Sort) Direction() string {
	if s.Desc {
		return "desc"
	}

	return "asc"
}

// String reproduces the sort spec form.
func (s Sort) String() string {
	if s.IsZero() {
		return ""
	}
	if s.Desc {
		return "-" + s.Field
	}

	return s.Field
}

// TextQuery is a fuzzy full-text query over an index's designated text field.
type TextQuery struct {
	Text string
	Page Page
}

// ListQuery is a paged listing, optionally restricted to one category
// (films whose nested genres contain CategoryID) and sorted.
type ListQuery struct {
	CategoryID string
	Sort       Sort
	Page       Page
}

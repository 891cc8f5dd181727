// Package cachekey derives cache keys from the shape of a read request.
//
// Key values are plain concatenations joined by Separator, not hashes. They are
// unambiguous because ids are canonical UUID strings, page values are integers and
// sort specs never contain the separator. Free-text queries may contain it, but the
// query is always followed by exactly two integer fields, so keys of the same shape
// still cannot collide.
package cachekey

import (
	"strconv"
	"strings"
)

// Separator joins key fields.
const Separator = "/"

// Shape tells what a key addresses and therefore what its payload holds.
type Shape string

const (
	ShapeEntity Shape = "entity" // one entity by id
	ShapeSearch Shape = "search" // fuzzy full-text result page
	ShapeList   Shape = "list"   // sorted (and optionally filtered) listing page
	ShapeIDs    Shape = "ids"    // batch of entities by id
)

// Key is a cache key value together with its shape.
type Key struct {
	Shape Shape
	Value string
}

// String returns the key value.
func (k Key) String() string {
	return k.Value
}

// IsList reports whether the payload under this key is a list of entities.
func (k Key) IsList() bool {
	return k.Shape != ShapeEntity
}

// Scoped returns the physical cache key for an entity kind: kind:shape:value.
// Scoping keeps film and person search pages for the same text in separate slots.
func (k Key) Scoped(kind string) string {
	return kind + ":" + string(k.Shape) + ":" + k.Value
}

// ForID builds the key of a single-entity lookup: the id, verbatim.
func ForID(id string) Key {
	return Key{Shape: ShapeEntity, Value: id}
}

// ForQuery builds the key of a full-text query page: query/page_size/page_number.
func ForQuery(query string, pageSize, pageNumber int) Key {
	return Key{
		Shape: ShapeSearch,
		Value: join(query, strconv.Itoa(pageSize), strconv.Itoa(pageNumber)),
	}
}

// ForListing builds the key of a listing page:
// category_id/sort/page_size/page_number, with empty category or sort omitted.
func ForListing(categoryID, sort string, pageSize, pageNumber int) Key {
	parts := make([]string, 0, 4)
	if categoryID != "" {
		parts = append(parts, categoryID)
	}
	if sort != "" {
		parts = append(parts, sort)
	}
	parts = append(parts, strconv.Itoa(pageSize), strconv.Itoa(pageNumber))

	return Key{Shape: ShapeList, Value: join(parts...)}
}

// ForIDs builds the key of an id-set lookup: the ids joined in insertion order.
func ForIDs(ids []string) Key {
	return Key{Shape: ShapeIDs, Value: join(ids...)}
}

func join(parts ...string) string {
	return strings.Join(parts, Separator)
}

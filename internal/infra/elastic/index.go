package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"movies-api/internal/domain"
)

// IndexConfig describes one entity index.
type IndexConfig struct {
	// Name is the Elasticsearch index name, e.g. "movies".
	Name string

	// TextField is the field fuzzy search runs against, e.g. "title".
	TextField string

	// CategoryPath is the nested category collection used by category listings,
	// e.g. "genres". Empty when the entity has no categories.
	CategoryPath string
}

// validatable is implemented by entities carrying invariants (domain.Film).
type validatable interface {
	Validate() error
}

// Index implements domain.SearchIndex for documents decoded into T.
type Index[T any] struct {
	client *Client
	cfg    IndexConfig
	logger *zap.Logger
}

// NewIndex creates a typed view over one index.
func NewIndex[T any](client *Client, cfg IndexConfig) *Index[T] {
	return &Index[T]{
		client: client,
		cfg:    cfg,
		logger: client.logger.With(zap.String("index", cfg.Name)),
	}
}

// Name returns the index name.
func (i *Index[T]) Name() string {
	return i.cfg.Name
}

// GetByID fetches one document. Returns nil, nil when it does not exist.
func (i *Index[T]) GetByID(ctx context.Context, id string) (*T, error) {
	path := "/" + url.PathEscape(i.cfg.Name) + "/_doc/" + url.PathEscape(id)

	resp, err := i.client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	var doc getResponse
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding %s/%s: %v", domain.ErrInvalidDocument, i.cfg.Name, id, err)
	}
	if !doc.Found {
		return nil, nil
	}

	return i.decode(id, doc.Source)
}

// Search runs a fuzzy query on the designated text field.
func (i *Index[T]) Search(ctx context.Context, q domain.TextQuery) ([]T, error) {
	if i.cfg.TextField == "" {
		return nil, fmt.Errorf("index %s has no text field configured", i.cfg.Name)
	}

	hits, err := i.search(ctx, fuzzyQuery(i.cfg.TextField, q))
	if err != nil {
		return nil, err
	}

	return i.decodeAll(hits)
}

// List returns a sorted page, optionally restricted to one category.
func (i *Index[T]) List(ctx context.Context, q domain.ListQuery) ([]T, error) {
	if q.CategoryID != "" && i.cfg.CategoryPath == "" {
		return nil, fmt.Errorf("index %s does not support category filters", i.cfg.Name)
	}

	hits, err := i.search(ctx, listQuery(i.cfg.CategoryPath, q))
	if err != nil {
		return nil, err
	}

	return i.decodeAll(hits)
}

// GetByIDs fetches documents by id in one round trip. The result follows the
// order of ids; ids without a document are skipped.
func (i *Index[T]) GetByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	hits, err := i.search(ctx, idsQuery(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]T, len(hits))
	for _, h := range hits {
		v, err := i.decode(h.ID, h.Source)
		if err != nil {
			return nil, err
		}
		byID[h.ID] = *v
	}

	result := make([]T, 0, len(byID))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			result = append(result, v)
			delete(byID, id)
		}
	}

	return result, nil
}

// search posts a query and returns the raw hits. A missing index yields no hits.
func (i *Index[T]) search(ctx context.Context, body searchRequest) ([]hit, error) {
	path := "/" + url.PathEscape(i.cfg.Name) + "/_search"

	resp, err := i.client.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		i.logger.Debug("index not found, returning empty result")

		return nil, nil
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: decoding %s search response: %v", domain.ErrInvalidDocument, i.cfg.Name, err)
	}

	return result.Hits.Hits, nil
}

func (i *Index[T]) decodeAll(hits []hit) ([]T, error) {
	result := make([]T, 0, len(hits))
	for _, h := range hits {
		v, err := i.decode(h.ID, h.Source)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}

	return result, nil
}

// decode unmarshals a document source and enforces entity invariants.
func (i *Index[T]) decode(id string, source json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(source, &v); err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", domain.ErrInvalidDocument, i.cfg.Name, id, err)
	}

	if val, ok := any(&v).(validatable); ok {
		if err := val.Validate(); err != nil {
			i.logger.Warn("document rejected", zap.String("id", id), zap.Error(err))

			return nil, fmt.Errorf("%w: %s/%s: %w", domain.ErrInvalidDocument, i.cfg.Name, id, err)
		}
	}

	return &v, nil
}

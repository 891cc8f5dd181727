package elastic

import (
	"encoding/json"

	"movies-api/internal/domain"
)

// getResponse is the body of GET /{index}/_doc/{id}.
type getResponse struct {
	ID     string          `json:"_id"`
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

// searchResponse is the body of POST /{index}/_search.
type searchResponse struct {
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

// searchRequest is the body of POST /{index}/_search.
type searchRequest struct {
	Query map[string]any   `json:"query"`
	Sort  []map[string]any `json:"sort,omitempty"`
	From  int              `json:"from"`
	Size  int              `json:"size"`
}

// fuzzyQuery matches text against field with an automatic edit distance.
func fuzzyQuery(field string, q domain.TextQuery) searchRequest {
	return searchRequest{
		Query: map[string]any{
			"fuzzy": map[string]any{
				field: map[string]any{
					"value":     q.Text,
					"fuzziness": "AUTO",
				},
			},
		},
		From: q.Page.Offset(),
		Size: q.Page.Limit(),
	}
}

// listQuery lists all documents, or only those whose nested category
// collection at categoryPath contains q.CategoryID.
func listQuery(categoryPath string, q domain.ListQuery) searchRequest {
	query := map[string]any{"match_all": map[string]any{}}
	if q.CategoryID != "" {
		query = map[string]any{
			"nested": map[string]any{
				"path": categoryPath,
				"query": map[string]any{
					"term": map[string]any{
						categoryPath + ".id": q.CategoryID,
					},
				},
			},
		}
	}

	req := searchRequest{
		Query: query,
		From:  q.Page.Offset(),
		Size:  q.Page.Limit(),
	}
	if !q.Sort.IsZero() {
		req.Sort = []map[string]any{
			{q.Sort.Field: map[string]any{"order": q.Sort.Direction()}},
		}
	}

	return req
}

// idsQuery matches an explicit id set in one round trip.
func idsQuery(ids []string) searchRequest {
	return searchRequest{
		Query: map[string]any{
			"ids": map[string]any{"values": ids},
		},
		Size: len(ids),
	}
}

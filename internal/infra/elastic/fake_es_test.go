package elastic

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jarcoal/httpmock"
)

const testBaseURL = "http://es.test"

// fakeES answers _doc and _search requests from in-memory fixtures. It understands
// the query shapes the client sends: match_all, fuzzy (as case-insensitive
// substring), nested term and ids, plus a single-field sort and from/size.
type fakeES struct {
	mu       sync.Mutex
	indices  map[string][]map[string]any
	lastBody map[string]any
}

func newFakeES() *fakeES {
	return &fakeES{indices: make(map[string][]map[string]any)}
}

// seed stores documents in index. Documents are any JSON-marshalable values with an "id".
func (f *fakeES) seed(index string, docs ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.indices[index]; !ok {
		f.indices[index] = []map[string]any{}
	}
	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			panic(err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			panic(err)
		}
		f.indices[index] = append(f.indices[index], m)
	}
}

func (f *fakeES) body() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastBody
}

func (f *fakeES) register() {
	httpmock.RegisterRegexpResponder(http.MethodGet,
		regexp.MustCompile(`^`+regexp.QuoteMeta(testBaseURL)+`/([^/]+)/_doc/([^/]+)$`),
		f.getDoc)
	httpmock.RegisterRegexpResponder(http.MethodPost,
		regexp.MustCompile(`^`+regexp.QuoteMeta(testBaseURL)+`/([^/]+)/_search$`),
		f.search)
}

func (f *fakeES) getDoc(req *http.Request) (*http.Response, error) {
	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	index, id := parts[0], parts[2]

	f.mu.Lock()
	docs, ok := f.indices[index]
	f.mu.Unlock()
	if !ok {
		return httpmock.NewJsonResponse(http.StatusNotFound, map[string]any{"error": "index_not_found_exception"})
	}

	for _, d := range docs {
		if d["id"] == id {
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"_index": index, "_id": id, "found": true, "_source": d,
			})
		}
	}

	return httpmock.NewJsonResponse(http.StatusNotFound, map[string]any{"_index": index, "_id": id, "found": false})
}

func (f *fakeES) search(req *http.Request) (*http.Response, error) {
	index := strings.Split(strings.Trim(req.URL.Path, "/"), "/")[0]

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
	}

	f.mu.Lock()
	f.lastBody = body
	docs, ok := f.indices[index]
	f.mu.Unlock()
	if !ok {
		return httpmock.NewJsonResponse(http.StatusNotFound, map[string]any{"error": "index_not_found_exception"})
	}

	matched := make([]map[string]any, 0, len(docs))
	query, _ := body["query"].(map[string]any)
	for _, d := range docs {
		if matches(query, d) {
			matched = append(matched, d)
		}
	}

	if sortSpec, ok := body["sort"].([]any); ok && len(sortSpec) > 0 {
		for field, opts := range sortSpec[0].(map[string]any) {
			desc := opts.(map[string]any)["order"] == "desc"
			sort.SliceStable(matched, func(i, j int) bool {
				a, _ := matched[i][field].(float64)
				b, _ := matched[j][field].(float64)
				if desc {
					return a > b
				}
				return a < b
			})
		}
	}

	from := intField(body, "from", 0)
	size := intField(body, "size", 10)
	if from > len(matched) {
		from = len(matched)
	}
	end := from + size
	if end > len(matched) {
		end = len(matched)
	}

	hits := make([]map[string]any, 0, end-from)
	for _, d := range matched[from:end] {
		hits = append(hits, map[string]any{"_id": d["id"], "_source": d})
	}

	return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
		"hits": map[string]any{"hits": hits},
	})
}

func matches(query map[string]any, doc map[string]any) bool {
	if query == nil {
		return true
	}
	if _, ok := query["match_all"]; ok {
		return true
	}
	if fuzzy, ok := query["fuzzy"].(map[string]any); ok {
		for field, spec := range fuzzy {
			value := strings.ToLower(fmt.Sprint(spec.(map[string]any)["value"]))
			text := strings.ToLower(fmt.Sprint(doc[field]))
			return strings.Contains(text, value)
		}
	}
	if nested, ok := query["nested"].(map[string]any); ok {
		path := nested["path"].(string)
		term := nested["query"].(map[string]any)["term"].(map[string]any)
		want := term[path+".id"]
		items, _ := doc[path].([]any)
		for _, it := range items {
			if it.(map[string]any)["id"] == want {
				return true
			}
		}
		return false
	}
	if ids, ok := query["ids"].(map[string]any); ok {
		for _, v := range ids["values"].([]any) {
			if v == doc["id"] {
				return true
			}
		}
		return false
	}

	return false
}

func intField(body map[string]any, name string, def int) int {
	if v, ok := body[name].(float64); ok {
		return int(v)
	}

	return def
}

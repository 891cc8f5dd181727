package elastic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"movies-api/internal/domain"
)

var (
	filmsIndex   = IndexConfig{Name: "movies", TextField: "title", CategoryPath: "genres"}
	personsIndex = IndexConfig{Name: "persons", TextField: "full_name"}
)

func newTestClient() *Client {
	cfg := ClientConfig{
		BaseURL: testBaseURL,
		Timeout: 5 * time.Second,
		CB: CBConfig{
			MaxRequests:  1,
			Interval:     60 * time.Second,
			Timeout:      30 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, zap.NewNop())

	// Activate httpmock for this client's HTTP transport
	httpmock.ActivateNonDefault(client.http.GetClient())

	return client
}

func ratingPtr(v float64) *float64 { return &v }

// seedFilms creates n films titled "Film NN" with rating NN and a shared base genre.
func seedFilms(n int) []domain.Film {
	films := make([]domain.Film, n)
	for i := range films {
		films[i] = domain.Film{
			ID:         uuid.NewString(),
			Title:      fmt.Sprintf("Film %02d", i),
			IMDBRating: ratingPtr(float64(i)),
			Genres:     []domain.IDName{{ID: uuid.NewString(), Name: "Other"}},
			Actors:     []domain.IDName{},
			Writers:    []domain.IDName{},
			Directors:  []domain.IDName{},
		}
	}

	return films
}

func seedAll(es *fakeES, index string, films []domain.Film) {
	for _, f := range films {
		es.seed(index, f)
	}
}

// TestIndex_GetByID_Found tests fetching and decoding a single document.
func TestIndex_GetByID_Found(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()

	film := seedFilms(1)[0]
	es.seed("movies", film)

	idx := NewIndex[domain.Film](client, filmsIndex)
	got, err := idx.GetByID(context.Background(), film.ID)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, film.ID, got.ID)
	assert.Equal(t, film.Title, got.Title)
	assert.Equal(t, *film.IMDBRating, *got.IMDBRating)
}

// TestIndex_GetByID_NotFound tests that absence is reported as nil, not as an error.
func TestIndex_GetByID_NotFound(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()
	es.seed("movies", seedFilms(1)[0])

	idx := NewIndex[domain.Film](client, filmsIndex)

	got, err := idx.GetByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)

	// Missing index is also absence
	missing := NewIndex[domain.Film](client, IndexConfig{Name: "nope", TextField: "title"})
	got, err = missing.GetByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestIndex_GetByID_InvalidRating tests that out-of-range ratings are rejected at decode time.
func TestIndex_GetByID_InvalidRating(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()

	for _, r := range []float64{101, -1} {
		film := domain.Film{ID: uuid.NewString(), Title: "Broken", IMDBRating: ratingPtr(r)}
		es.seed("movies", film)

		idx := NewIndex[domain.Film](client, filmsIndex)
		got, err := idx.GetByID(context.Background(), film.ID)

		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, domain.ErrInvalidDocument))
		assert.True(t, errors.Is(err, domain.ErrInvalidRating))
	}
}

// TestIndex_Search_Fuzzy tests the fuzzy query body and result decoding.
func TestIndex_Search_Fuzzy(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()

	es.seed("persons",
		domain.Person{ID: uuid.NewString(), FullName: "Mat Lucas", Films: []domain.PersonFilm{}},
		domain.Person{ID: uuid.NewString(), FullName: "Ann Lee", Films: []domain.PersonFilm{}},
	)

	idx := NewIndex[domain.Person](client, personsIndex)
	got, err := idx.Search(context.Background(), domain.TextQuery{
		Text: "lucas",
		Page: domain.Page{Size: 10, Number: 1},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mat Lucas", got[0].FullName)

	body := es.body()
	fuzzy := body["query"].(map[string]any)["fuzzy"].(map[string]any)["full_name"].(map[string]any)
	assert.Equal(t, "lucas", fuzzy["value"])
	assert.Equal(t, "AUTO", fuzzy["fuzziness"])
	assert.Equal(t, float64(0), body["from"])
	assert.Equal(t, float64(10), body["size"])
}

// TestIndex_Search_NoMatch tests that no match and a missing index are empty, not errors.
func TestIndex_Search_NoMatch(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()
	seedAll(es, "movies", seedFilms(3))

	idx := NewIndex[domain.Film](client, filmsIndex)
	got, err := idx.Search(context.Background(), domain.TextQuery{Text: "zzz", Page: domain.DefaultPage()})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	missing := NewIndex[domain.Film](client, IndexConfig{Name: "absent", TextField: "title"})
	got, err = missing.Search(context.Background(), domain.TextQuery{Text: "x", Page: domain.DefaultPage()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestIndex_Search_Paging tests offset = (page-1)*size over a 50-item fixture.
func TestIndex_Search_Paging(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()
	films := seedFilms(50)
	seedAll(es, "movies", films)

	idx := NewIndex[domain.Film](client, filmsIndex)
	ctx := context.Background()

	page1, err := idx.Search(ctx, domain.TextQuery{Text: "film", Page: domain.Page{Size: 10, Number: 1}})
	require.NoError(t, err)
	page2, err := idx.Search(ctx, domain.TextQuery{Text: "film", Page: domain.Page{Size: 10, Number: 2}})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(page1), 10)
	require.Len(t, page2, 10)
	assert.Equal(t, films[10].ID, page2[0].ID, "page 2 starts at offset 10")
	assert.Equal(t, float64(10), es.body()["from"])

	seen := make(map[string]bool)
	for _, f := range page1 {
		seen[f.ID] = true
	}
	for _, f := range page2 {
		assert.False(t, seen[f.ID], "pages must not overlap")
	}
}

// TestIndex_List_ByCategory tests nested filtering combined with sorting.
func TestIndex_List_ByCategory(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()

	films := seedFilms(50)
	shared := domain.IDName{ID: uuid.NewString(), Name: "Noir"}
	films[7].Genres = append(films[7].Genres, shared)  // rating 7
	films[42].Genres = append(films[42].Genres, shared) // rating 42
	seedAll(es, "movies", films)

	idx := NewIndex[domain.Film](client, filmsIndex)
	ctx := context.Background()

	desc, err := idx.List(ctx, domain.ListQuery{
		CategoryID: shared.ID,
		Sort:       domain.ParseSort("-imdb_rating"),
		Page:       domain.Page{Size: 50, Number: 1},
	})
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, films[42].ID, desc[0].ID, "higher rating first")
	assert.Equal(t, films[7].ID, desc[1].ID)

	asc, err := idx.List(ctx, domain.ListQuery{
		CategoryID: shared.ID,
		Sort:       domain.ParseSort("imdb_rating"),
		Page:       domain.Page{Size: 50, Number: 1},
	})
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, films[7].ID, asc[0].ID)

	nested := es.body()["query"].(map[string]any)["nested"].(map[string]any)
	assert.Equal(t, "genres", nested["path"])
}

// TestIndex_List_Sorted tests the unfiltered listing.
func TestIndex_List_Sorted(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()
	seedAll(es, "movies", seedFilms(20))

	idx := NewIndex[domain.Film](client, filmsIndex)
	got, err := idx.List(context.Background(), domain.ListQuery{
		Sort: domain.ParseSort("-imdb_rating"),
		Page: domain.Page{Size: 5, Number: 1},
	})

	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, 19.0, *got[0].IMDBRating)
	assert.Equal(t, 15.0, *got[4].IMDBRating)

	_, hasQuery := es.body()["query"].(map[string]any)["match_all"]
	assert.True(t, hasQuery)
}

// TestIndex_List_CategoryUnsupported tests filtering an index without categories.
func TestIndex_List_CategoryUnsupported(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	idx := NewIndex[domain.Person](client, personsIndex)

	_, err := idx.List(context.Background(), domain.ListQuery{CategoryID: "g", Page: domain.DefaultPage()})

	require.Error(t, err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

// TestIndex_GetByIDs tests batch lookup ordering and missing ids.
func TestIndex_GetByIDs(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	es := newFakeES()
	es.register()
	films := seedFilms(5)
	seedAll(es, "movies", films)

	idx := NewIndex[domain.Film](client, filmsIndex)
	ids := []string{films[3].ID, uuid.NewString(), films[0].ID}

	got, err := idx.GetByIDs(context.Background(), ids)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, films[3].ID, got[0].ID)
	assert.Equal(t, films[0].ID, got[1].ID)
	assert.Equal(t, float64(3), es.body()["size"], "size covers the whole id set")
}

// TestIndex_GetByIDs_Empty tests that an empty id set never reaches the backend.
func TestIndex_GetByIDs_Empty(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	idx := NewIndex[domain.Film](client, filmsIndex)

	got, err := idx.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

// TestIndex_TransportFailure tests that transport errors are distinguishable from empty results.
func TestIndex_TransportFailure(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterNoResponder(httpmock.NewErrorResponder(errors.New("connection refused")))

	idx := NewIndex[domain.Film](client, filmsIndex)
	ctx := context.Background()

	got, err := idx.GetByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, domain.ErrBackendUnavailable))

	list, err := idx.Search(ctx, domain.TextQuery{Text: "x", Page: domain.DefaultPage()})
	require.Error(t, err)
	assert.Nil(t, list)
	assert.True(t, errors.Is(err, domain.ErrBackendUnavailable))
}

// TestIndex_ServerError tests that 5xx answers are backend failures and 4xx are not.
func TestIndex_ServerError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	idx := NewIndex[domain.Film](client, filmsIndex)
	ctx := context.Background()

	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/movies/_search",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"error":"cluster_block_exception"}`))
	_, err := idx.Search(ctx, domain.TextQuery{Text: "x", Page: domain.DefaultPage()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendUnavailable))

	httpmock.Reset()
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/movies/_search",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"error":"parsing_exception"}`))
	_, err = idx.Search(ctx, domain.TextQuery{Text: "x", Page: domain.DefaultPage()})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrBackendUnavailable))
}

// TestIndex_CircuitBreakerOpens tests that repeated failures stop traffic to the backend.
func TestIndex_CircuitBreakerOpens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterRegexpResponder(http.MethodGet,
		regexp.MustCompile(`/movies/_doc/`),
		httpmock.NewErrorResponder(errors.New("connection refused")))
	idx := NewIndex[domain.Film](client, filmsIndex)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := idx.GetByID(ctx, uuid.NewString())
		require.Error(t, err)
	}
	calls := httpmock.GetTotalCallCount()
	require.Equal(t, 3, calls)

	_, err := idx.GetByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendUnavailable))
	assert.Equal(t, calls, httpmock.GetTotalCallCount(), "open circuit must short-circuit requests")
}

func TestClient_Ping(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/",
		httpmock.NewStringResponder(http.StatusOK, `{"tagline":"You Know, for Search"}`))

	assert.NoError(t, client.Ping(context.Background()))

	httpmock.Reset()
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ``))

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendUnavailable))
}

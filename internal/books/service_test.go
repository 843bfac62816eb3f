package books

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/catalog/googlebooks"
	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// fakeSource records queries and serves canned pages and books.
type fakeSource struct {
	mu        sync.Mutex
	queries   []catalog.Query
	pages     map[string]catalog.Page
	books     map[string]domain.Book
	searchErr error
	lookupErr map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:     map[string]catalog.Page{},
		books:     map[string]domain.Book{},
		lookupErr: map[string]error{},
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(_ context.Context, q catalog.Query) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.searchErr != nil {
		return catalog.Page{}, f.searchErr
	}
	return f.pages[q.Text], nil
}

func (f *fakeSource) Lookup(_ context.Context, id string) (domain.Book, error) {
	if err := f.lookupErr[id]; err != nil {
		return domain.Book{}, err
	}
	b, ok := f.books[id]
	if !ok {
		return domain.Book{}, catalog.ErrNotFound
	}
	return b, nil
}

func (f *fakeSource) lastQuery() catalog.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func makeBooks(prefix string, n int) []domain.Book {
	out := make([]domain.Book, n)
	for i := range out {
		out[i] = domain.Book{ID: fmt.Sprintf("%s-%d", prefix, i)}
	}
	return out
}

func ids(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func newService(src catalog.Source) *Service {
	return New(src, Options{}, logger.NewNop())
}

func TestSearch_BlankQueryUsesDefaultSeed(t *testing.T) {
	src := newFakeSource()
	src.pages[DefaultSearchQuery] = catalog.Page{Books: makeBooks("p", 3), TotalFound: 3}
	svc := newService(src)

	blank := svc.Search(context.Background(), "   ", 1, 10)
	seeded := svc.Search(context.Background(), DefaultSearchQuery, 1, 10)

	assert.Equal(t, seeded, blank)
	assert.Equal(t, DefaultSearchQuery, src.lastQuery().Text)
	assert.Len(t, blank.Books, 3)
}

func TestSearch_ClampsPaging(t *testing.T) {
	src := newFakeSource()
	svc := New(src, Options{DefaultPageSize: 20, MaxPageSize: 50}, logger.NewNop())

	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"zero page", 0, 10, 1, 10},
		{"negative page", -4, 10, 1, 10},
		{"zero size uses default", 2, 0, 2, 20},
		{"oversized", 1, 500, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Search(context.Background(), "dune", tt.page, tt.size)
			assert.Equal(t, tt.wantPage, res.Page)
			assert.Equal(t, tt.wantPageSize, res.PageSize)

			q := src.lastQuery()
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantPageSize, q.PageSize)
		})
	}
}

func TestSearch_NeverReturnsMoreThanPageSize(t *testing.T) {
	src := newFakeSource()
	src.pages["dune"] = catalog.Page{Books: makeBooks("d", 25), TotalFound: 1000}
	svc := newService(src)

	for _, size := range []int{1, 5, 24, 25, 30} {
		res := svc.Search(context.Background(), "dune", 1, size)
		assert.LessOrEqual(t, len(res.Books), size)
		assert.Equal(t, 1000, res.TotalFound)
	}
}

func TestSearch_FailureIsAbsorbed(t *testing.T) {
	src := newFakeSource()
	src.searchErr = &catalog.TransportError{URL: "x", Err: errors.New("connection refused")}
	svc := newService(src)

	res := svc.Search(context.Background(), "dune", 3, 7)
	assert.NotNil(t, res.Books)
	assert.Empty(t, res.Books)
	assert.Equal(t, 0, res.TotalFound)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 7, res.PageSize)
}

func TestGetByID(t *testing.T) {
	src := newFakeSource()
	src.books["OL1W"] = domain.Book{ID: "OL1W", Title: "Dune"}
	src.lookupErr["down"] = &catalog.TransportError{URL: "x", Err: errors.New("network unreachable")}
	src.lookupErr["broken"] = &catalog.UpstreamError{URL: "x", Status: 500}
	svc := newService(src)

	b, found, err := svc.GetByID(context.Background(), "OL1W")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Dune", b.Title)

	_, found, err = svc.GetByID(context.Background(), "missing-id")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.GetByID(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.GetByID(context.Background(), "down")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, catalog.IsTransport(err))

	_, _, err = svc.GetByID(context.Background(), "broken")
	status, ok := catalog.UpstreamStatus(err)
	require.True(t, ok)
	assert.Equal(t, 500, status)
}

func TestRecommend_NoReferenceUsesDefaultQuery(t *testing.T) {
	src := newFakeSource()
	src.pages[DefaultRecommendQuery] = catalog.Page{Books: makeBooks("r", 9)}
	svc := newService(src)

	got := svc.Recommend(context.Background(), "", 0)

	assert.Equal(t, []string{"r-0", "r-1", "r-2"}, ids(got))
	q := src.lastQuery()
	assert.Equal(t, DefaultRecommendQuery, q.Text)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultRecommendLimit*DefaultOverFetch, q.PageSize)
}

func TestRecommend_UsesFirstCategoryAndExcludesReference(t *testing.T) {
	src := newFakeSource()
	src.books["ref"] = domain.Book{ID: "ref", Categories: []string{"A", "B"}}
	src.pages[`subject:"A"`] = catalog.Page{Books: []domain.Book{
		{ID: "shares-a", Categories: []string{"A"}},
		{ID: "ref", Categories: []string{"A", "B"}},
		{ID: "shares-ab", Categories: []string{"B", "A"}},
		{ID: "none"},
	}}
	svc := newService(src)

	got := svc.Recommend(context.Background(), "ref", 2)

	assert.Equal(t, `subject:"A"`, src.lastQuery().Text)
	assert.Equal(t, []string{"shares-ab", "shares-a"}, ids(got))
}

func TestRecommend_NeverExceedsLimitOrIncludesReference(t *testing.T) {
	src := newFakeSource()
	src.books["x-4"] = domain.Book{ID: "x-4", Categories: []string{"C"}}
	src.pages[`subject:"C"`] = catalog.Page{Books: makeBooks("x", 30)}
	svc := newService(src)

	for limit := 1; limit <= 12; limit++ {
		got := svc.Recommend(context.Background(), "x-4", limit)
		assert.LessOrEqual(t, len(got), limit)
		assert.NotContains(t, ids(got), "x-4")
	}
}

func TestRecommend_ReferenceWithoutCategories(t *testing.T) {
	src := newFakeSource()
	src.books["plain"] = domain.Book{ID: "plain"}
	src.pages[DefaultRecommendQuery] = catalog.Page{Books: makeBooks("r", 5)}
	svc := newService(src)

	got := svc.Recommend(context.Background(), "plain", 3)
	assert.Equal(t, DefaultRecommendQuery, src.lastQuery().Text)
	assert.Len(t, got, 3)
}

func TestRecommend_FailedReferenceLookupFallsBack(t *testing.T) {
	src := newFakeSource()
	src.lookupErr["down"] = &catalog.TransportError{URL: "x", Err: errors.New("timeout")}
	src.pages[DefaultRecommendQuery] = catalog.Page{Books: makeBooks("r", 4)}
	svc := newService(src)

	got := svc.Recommend(context.Background(), "down", 3)
	assert.Equal(t, DefaultRecommendQuery, src.lastQuery().Text)
	assert.Len(t, got, 3)
}

func TestRecommend_SearchFailureYieldsEmpty(t *testing.T) {
	src := newFakeSource()
	src.searchErr = &catalog.UpstreamError{URL: "x", Status: 503}
	svc := newService(src)

	got := svc.Recommend(context.Background(), "", 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommend_OverFetchFactorIsConfigurable(t *testing.T) {
	src := newFakeSource()
	svc := New(src, Options{OverFetchFactor: 5}, logger.NewNop())

	_ = svc.Recommend(context.Background(), "", 2)
	assert.Equal(t, 10, src.lastQuery().PageSize)
}

func TestSubjectQuery(t *testing.T) {
	assert.Equal(t, `subject:"Science Fiction"`, SubjectQuery(" Science Fiction "))
	assert.Equal(t, `subject:"The Sun"`, SubjectQuery(`The "Sun"`))
}

func TestSearch_PageSizeCappedBySourceLimit(t *testing.T) {
	var startIndex, maxResults string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startIndex = r.URL.Query().Get("startIndex")
		maxResults = r.URL.Query().Get("maxResults")
		_, _ = w.Write([]byte(`{"totalItems": 500, "items": []}`))
	}))
	t.Cleanup(srv.Close)

	src := googlebooks.New(catalog.NewClient(catalog.ClientOptions{BaseURL: srv.URL}), "")
	svc := New(src, Options{}, logger.NewNop())

	res := svc.Search(context.Background(), "go", 2, 60)

	assert.Equal(t, googlebooks.MaxResults, res.PageSize)
	assert.Equal(t, "40", maxResults)
	assert.Equal(t, "40", startIndex, "page 2 must start right after the reported page size")
	assert.Equal(t, 500, res.TotalFound)
}

func TestNew_DefaultPageSizeFollowsSourceLimit(t *testing.T) {
	src := googlebooks.New(catalog.NewClient(catalog.ClientOptions{BaseURL: "http://127.0.0.1:0"}), "")
	cached := catalog.NewCachedSource(src, nil, 0, logger.NewNop())

	svc := New(cached, Options{DefaultPageSize: 50, MaxPageSize: 100}, logger.NewNop())

	assert.Equal(t, googlebooks.MaxResults, svc.opts.MaxPageSize)
	assert.Equal(t, googlebooks.MaxResults, svc.opts.DefaultPageSize)
}

func TestNew_SourceWithoutLimitKeepsOptions(t *testing.T) {
	svc := New(newFakeSource(), Options{MaxPageSize: 100}, logger.NewNop())
	assert.Equal(t, 100, svc.opts.MaxPageSize)
}

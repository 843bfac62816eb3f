package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

const volumeJSON = `{
	"id": "zyTCAlFPjgYC",
	"volumeInfo": {
		"title": "The Google Story",
		"authors": ["David A. Vise", "Mark Malseed"],
		"publishedDate": "2005-11-15",
		"description": "Here is the story behind one of the most remarkable Internet successes.",
		"industryIdentifiers": [
			{"type": "ISBN_10", "identifier": "055380457X"},
			{"type": "ISBN_13", "identifier": "9780553804577"}
		],
		"pageCount": 207,
		"categories": ["Browsers (Computer programs)"],
		"averageRating": 4.0,
		"ratingsCount": 3,
		"imageLinks": {"smallThumbnail": "http://books.google.com/small.jpg"},
		"previewLink": "http://books.google.com/preview",
		"infoLink": "http://books.google.com/info"
	}
}`

func newTestSource(t *testing.T, apiKey string, h http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(catalog.NewClient(catalog.ClientOptions{BaseURL: srv.URL, Timeout: 2 * time.Second}), apiKey)
}

func TestSearch_PagingAndMapping(t *testing.T) {
	src := newTestSource(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "google", q.Get("q"))
		assert.Equal(t, "40", q.Get("startIndex"))
		assert.Equal(t, "20", q.Get("maxResults"))
		assert.Equal(t, "relevance", q.Get("orderBy"))
		assert.Equal(t, "secret", q.Get("key"))
		_, _ = w.Write([]byte(`{"totalItems": 1234, "items": [` + volumeJSON + `, {"volumeInfo": {"title": "no id"}}]}`))
	})

	page, err := src.Search(context.Background(), catalog.Query{Text: "google", Page: 3, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, 1234, page.TotalFound)
	require.Len(t, page.Books, 1)

	b := page.Books[0]
	assert.Equal(t, "zyTCAlFPjgYC", b.ID)
	assert.Equal(t, []string{"David A. Vise", "Mark Malseed"}, b.Authors)
	assert.Equal(t, "9780553804577", b.ISBN)
	assert.Equal(t, "http://books.google.com/small.jpg", b.CoverImage)
	assert.Equal(t, "browsers computer", b.DataAIHint)
	assert.Equal(t, "http://books.google.com/preview", b.PreviewLink)
}

func TestSearch_PageSizeCapped(t *testing.T) {
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "40", r.URL.Query().Get("maxResults"))
		assert.False(t, r.URL.Query().Has("key"))
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	})

	page, err := src.Search(context.Background(), catalog.Query{Text: "x", Page: 1, PageSize: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Books)
}

func TestLookup(t *testing.T) {
	src := newTestSource(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes/zyTCAlFPjgYC" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(volumeJSON))
	})

	b, err := src.Lookup(context.Background(), "zyTCAlFPjgYC")
	require.NoError(t, err)
	assert.Equal(t, "The Google Story", b.Title)

	_, err = src.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLookup_EmptyVolumeGetsSentinels(t *testing.T) {
	src := newTestSource(t, "", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	b, err := src.Lookup(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", b.ID)
	assert.Equal(t, domain.UnknownTitle, b.Title)
	assert.Equal(t, domain.NoDescription, b.Description)
	assert.Equal(t, domain.PlaceholderCover, b.CoverImage)
	assert.Equal(t, domain.DefaultAIHint, b.DataAIHint)
}

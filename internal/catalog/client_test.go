package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{BaseURL: srv.URL + "/", UserAgent: "bibliofind-test", Timeout: 2 * time.Second})
}

func TestFetchJSON_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "bibliofind-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"numFound": 3}`))
	})

	var out struct {
		NumFound int `json:"numFound"`
	}
	err := c.FetchJSON(context.Background(), "/search.json", url.Values{"q": {"dune"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumFound)
}

func TestFetchRaw_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.FetchRaw(context.Background(), "/works/OL0W.json", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsTransport(err))
}

func TestFetchRaw_UpstreamStatusKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.FetchRaw(context.Background(), "/volumes", nil)
	require.Error(t, err)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusTooManyRequests, ue.Status)
	assert.Equal(t, "quota exceeded", ue.Body)

	status, ok := UpstreamStatus(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchRaw_ServerErrorIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchRaw(context.Background(), "/x", nil)
	status, ok := UpstreamStatus(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestFetchRaw_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(ClientOptions{BaseURL: base, Timeout: time.Second})
	_, err := c.FetchRaw(context.Background(), "/search.json", nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	_, isUpstream := UpstreamStatus(err)
	assert.False(t, isUpstream)
}

func TestFetchRaw_CanceledContextIsTransport(t *testing.T) {
	c := NewClient(ClientOptions{BaseURL: "http://127.0.0.1:1", PacingDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchRaw(ctx, "/search.json", nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchJSON_Malformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	var out map[string]any
	err := c.FetchJSON(context.Background(), "/search.json", nil, &out)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

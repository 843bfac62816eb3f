package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// ClientOptions configures the outbound catalog HTTP client.
type ClientOptions struct {
	BaseURL           string        // ex: "https://openlibrary.org"
	UserAgent         string        // sent on every request
	Timeout           time.Duration // per-request HTTP timeout
	RequestsPerSecond float64       // outbound rate, <= 0 disables limiting
	Burst             int           // limiter burst, defaults to 1
	PacingDelay       time.Duration // fixed delay before each call, 0 = none
	HTTPClient        *http.Client  // optional, mainly for tests
}

// Client performs GET requests against one catalog provider and maps
// failures onto the catalog error taxonomy. It never retries: retry policy
// belongs to the caller.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	pacing     time.Duration
}

// NewClient builds a catalog client.
func NewClient(opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: hc,
		limiter:    limiter,
		pacing:     opts.PacingDelay,
	}
}

// FetchRaw issues GET baseURL+path?query and returns the body of a 2xx response.
//
// Errors: ErrNotFound on 404, *UpstreamError on any other non-2xx status,
// *TransportError when no response could be obtained.
func (c *Client) FetchRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if err := c.wait(ctx); err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, &TransportError{URL: u, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{URL: u, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: u, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return body, nil
}

// FetchJSON is FetchRaw followed by a JSON decode into target.
// A body that does not decode yields ErrMalformedResponse.
func (c *Client) FetchJSON(ctx context.Context, path string, query url.Values, target any) error {
	body, err := c.FetchRaw(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.pacing > 0 {
		timer := time.NewTimer(c.pacing)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}
	return nil
}

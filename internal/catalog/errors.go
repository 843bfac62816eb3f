package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the catalog has no such resource.
	// It is an expected outcome, not a failure.
	ErrNotFound = errors.New("catalog: not found")

	// ErrMalformedResponse is returned when a response body does not have
	// the expected shape.
	ErrMalformedResponse = errors.New("catalog: malformed response")
)

// TransportError means no response was obtained: the request could not be
// sent, or the connection failed before a status arrived.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog: transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is any non-success status other than 404.
type UpstreamError struct {
	URL    string
	Status int
	Body   string // truncated response body, for diagnostics
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog: upstream %s returned status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("catalog: upstream %s returned status %d: %s", e.URL, e.Status, e.Body)
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// UpstreamStatus returns the HTTP status carried by an *UpstreamError in err's chain.
func UpstreamStatus(err error) (int, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status, true
	}
	return 0, false
}

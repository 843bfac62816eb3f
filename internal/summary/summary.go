package summary

import (
	"context"
	"errors"
	"strings"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

var (
	// ErrEmptyDescription is returned when there is nothing to summarize.
	ErrEmptyDescription = errors.New("summary: book description is empty")

	// ErrDisabled is returned when no summarization backend is configured.
	ErrDisabled = errors.New("summary: summarization is not configured")
)

// Request carries the text to summarize.
type Request struct {
	BookDescription string `json:"bookDescription"`
}

// Response is the generated summary.
type Response struct {
	Summary string `json:"summary"`
}

// Summarizer produces a short summary of a book description.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (Response, error)
}

// Disabled is the Summarizer used when no API key is configured.
type Disabled struct{}

func (Disabled) Summarize(context.Context, Request) (Response, error) {
	return Response{}, ErrDisabled
}

// cleanDescription trims the input and rejects blank text or the
// no-description sentinel.
func cleanDescription(req Request) (string, error) {
	d := strings.TrimSpace(req.BookDescription)
	if d == "" || d == domain.NoDescription {
		return "", ErrEmptyDescription
	}
	return d, nil
}

package catalog

import (
	"context"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

// Query is a provider-neutral search request. Page is 1-based.
type Query struct {
	Text     string
	Page     int
	PageSize int
}

// Page is one page of normalized results plus the provider's total hit count.
type Page struct {
	Books      []domain.Book `json:"books"`
	TotalFound int           `json:"totalFound"`
}

// Source is one catalog backend (Open Library, Google Books, the YAML mock).
// Implementations return normalized books and catalog errors; they do not
// absorb failures, that policy lives in the books service.
type Source interface {
	// Name identifies the backend in logs and cache keys.
	Name() string

	// Search runs a full-text query. Query.Text is never blank here.
	Search(ctx context.Context, q Query) (Page, error)

	// Lookup fetches one book by provider id, or ErrNotFound.
	Lookup(ctx context.Context, id string) (domain.Book, error)
}

// PageLimiter is implemented by sources whose upstream caps the page size.
type PageLimiter interface {
	MaxPageSize() int
}

// MaxPageSize returns the page cap of src, or 0 when it has none.
func MaxPageSize(src Source) int {
	if pl, ok := src.(PageLimiter); ok {
		return pl.MaxPageSize()
	}
	return 0
}

package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

const (
	DefaultSearchQuery    = "popular books"
	DefaultRecommendQuery = "bestselling programming books"
	DefaultPageSize       = 20
	DefaultMaxPageSize    = 100
	DefaultRecommendLimit = 3
	DefaultOverFetch      = 3
)

// Catalog is what the transport layer needs from the books service.
type Catalog interface {
	Search(ctx context.Context, query string, page, pageSize int) domain.PaginatedResult
	GetByID(ctx context.Context, id string) (domain.Book, bool, error)
	Recommend(ctx context.Context, referenceID string, limit int) []domain.Book
}

// Options tunes the service. Zero values fall back to the defaults above.
type Options struct {
	DefaultQuery    string
	RecommendQuery  string
	DefaultPageSize int
	MaxPageSize     int
	RecommendLimit  int
	OverFetchFactor int
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.DefaultQuery) == "" {
		o.DefaultQuery = DefaultSearchQuery
	}
	if strings.TrimSpace(o.RecommendQuery) == "" {
		o.RecommendQuery = DefaultRecommendQuery
	}
	if o.MaxPageSize < 1 {
		o.MaxPageSize = DefaultMaxPageSize
	}
	if o.DefaultPageSize < 1 {
		o.DefaultPageSize = DefaultPageSize
	}
	o.DefaultPageSize = min(o.DefaultPageSize, o.MaxPageSize)
	if o.RecommendLimit < 1 {
		o.RecommendLimit = DefaultRecommendLimit
	}
	if o.OverFetchFactor < 1 {
		o.OverFetchFactor = DefaultOverFetch
	}
	return o
}

// Service orchestrates searches and recommendations over one catalog Source.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	src  catalog.Source
	opts Options
	log  logger.Logger
}

var _ Catalog = (*Service)(nil)

// New creates a books service. The page size is further capped by the
// source's own limit so the reported pageSize always matches upstream paging.
func New(src catalog.Source, opts Options, log logger.Logger) *Service {
	opts = opts.withDefaults()
	if limit := catalog.MaxPageSize(src); limit > 0 {
		opts.MaxPageSize = min(opts.MaxPageSize, limit)
		opts.DefaultPageSize = min(opts.DefaultPageSize, opts.MaxPageSize)
	}
	return &Service{src: src, opts: opts, log: log}
}

// Search runs a query against the catalog. It never fails: a source error
// is logged and yields an empty page.
func (s *Service) Search(ctx context.Context, query string, page, pageSize int) domain.PaginatedResult {
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.opts.DefaultQuery
	}
	page = max(page, 1)
	if pageSize < 1 {
		pageSize = s.opts.DefaultPageSize
	}
	pageSize = min(pageSize, s.opts.MaxPageSize)

	result := domain.PaginatedResult{
		Books:    []domain.Book{},
		Page:     page,
		PageSize: pageSize,
	}

	res, err := s.src.Search(ctx, catalog.Query{Text: query, Page: page, PageSize: pageSize})
	if err != nil {
		s.log.Error("catalog search failed",
			logger.String("source", s.src.Name()),
			logger.String("query", query),
			logger.Int("page", page),
			logger.Error(err))
		return result
	}

	books := res.Books
	if len(books) > pageSize {
		books = books[:pageSize]
	}
	if books != nil {
		result.Books = books
	}
	result.TotalFound = max(res.TotalFound, 0)
	return result
}

// GetByID fetches a single book. A missing book is (zero, false, nil);
// every other failure is returned to the caller.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Book, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Book{}, false, nil
	}

	b, err := s.src.Lookup(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return domain.Book{}, false, nil
	case err != nil:
		return domain.Book{}, false, fmt.Errorf("lookup %s in %s: %w", id, s.src.Name(), err)
	}
	return b, true, nil
}

// Recommend returns up to limit books related to referenceID, or
// general recommendations when referenceID is empty. It never fails.
func (s *Service) Recommend(ctx context.Context, referenceID string, limit int) []domain.Book {
	if limit < 1 {
		limit = s.opts.RecommendLimit
	}
	referenceID = strings.TrimSpace(referenceID)

	var (
		ref    domain.Book
		hasRef bool
	)
	if referenceID != "" {
		b, found, err := s.GetByID(ctx, referenceID)
		if err != nil {
			s.log.Warn("reference lookup failed, using default recommendations",
				logger.String("id", referenceID), logger.Error(err))
		}
		ref, hasRef = b, found && err == nil
	}

	query := s.opts.RecommendQuery
	if hasRef && len(ref.Categories) > 0 {
		query = SubjectQuery(ref.Categories[0])
	}

	res := s.Search(ctx, query, 1, limit*s.opts.OverFetchFactor)
	candidates := domain.ExcludeID(res.Books, referenceID)

	if hasRef && len(ref.Categories) > 0 {
		candidates = domain.RankByCategoryOverlap(ref, candidates)
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// SubjectQuery builds a category-restricted catalog query.
func SubjectQuery(category string) string {
	return `subject:"` + strings.ReplaceAll(strings.TrimSpace(category), `"`, "") + `"`
}

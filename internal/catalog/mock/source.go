package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// Name identifies this provider in config and cache keys.
const Name = "mock"

const subjectPrefix = "subject:"

// Source serves books from a YAML seed file held in memory.
type Source struct {
	loader *Loader
	index  *Index
	browse map[string]bool // queries that list the whole catalog
	log    logger.Logger
}

var _ catalog.Source = (*Source)(nil)

// New creates a mock source. browseQueries are the default seeds of the
// books service; they return the whole catalog instead of a text match.
// Call Reload before serving.
func New(seedFile string, browseQueries []string, log logger.Logger) *Source {
	browse := make(map[string]bool, len(browseQueries))
	for _, q := range browseQueries {
		if k := normalizeText(q); k != "" {
			browse[k] = true
		}
	}
	return &Source{
		loader: NewLoader(seedFile),
		index:  NewIndex(),
		browse: browse,
		log:    log,
	}
}

func (s *Source) Name() string { return Name }

// Reload re-reads the seed file and swaps the catalog atomically.
// On failure the previous catalog is kept.
func (s *Source) Reload(_ context.Context) error {
	books, err := s.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load mock catalog: %w", err)
	}
	s.index.Replace(books)
	s.log.Info("mock catalog loaded", logger.Int("count", s.index.Count()))
	return nil
}

// Count returns the number of books currently served.
func (s *Source) Count() int { return s.index.Count() }

// LastReload returns when the seed file was last loaded successfully.
func (s *Source) LastReload() time.Time { return s.index.LastReload() }

func (s *Source) Search(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Page{}, &catalog.TransportError{URL: "mock://search", Err: err}
	}

	matches := s.index.Filter(s.matcher(q.Text))

	size := max(q.PageSize, 1)
	start := (max(q.Page, 1) - 1) * size
	if start >= len(matches) {
		return catalog.Page{Books: []domain.Book{}, TotalFound: len(matches)}, nil
	}
	end := min(start+size, len(matches))

	return catalog.Page{Books: matches[start:end], TotalFound: len(matches)}, nil
}

func (s *Source) Lookup(ctx context.Context, id string) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, &catalog.TransportError{URL: "mock://book/" + id, Err: err}
	}
	b, ok := s.index.Get(strings.TrimSpace(id))
	if !ok {
		return domain.Book{}, catalog.ErrNotFound
	}
	return b, nil
}

// matcher turns a query into a predicate:
//   - a browse seed matches everything
//   - subject:"X" matches books carrying category X
//   - otherwise every term must appear in the title, an author or the ISBN
func (s *Source) matcher(text string) func(domain.Book) bool {
	norm := normalizeText(text)
	if s.browse[norm] {
		return func(domain.Book) bool { return true }
	}

	if strings.HasPrefix(norm, subjectPrefix) {
		subject := strings.Trim(strings.TrimSpace(norm[len(subjectPrefix):]), `"`)
		return func(b domain.Book) bool {
			for _, c := range b.Categories {
				if strings.EqualFold(strings.TrimSpace(c), subject) {
					return true
				}
			}
			return false
		}
	}

	terms := strings.Fields(norm)
	return func(b domain.Book) bool {
		haystack := strings.ToLower(b.Title + " " + strings.Join(b.Authors, " ") + " " + b.ISBN)
		for _, t := range terms {
			if !strings.Contains(haystack, t) {
				return false
			}
		}
		return true
	}
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

const (
	// Name identifies this provider in config and cache keys.
	Name = "openlibrary"

	DefaultBaseURL = "https://openlibrary.org"

	coverURLFormat    = "https://covers.openlibrary.org/b/id/%d-M.jpg"
	workURLFormat     = "https://openlibrary.org/works/%s"
	maxAuthorLookups  = 4
	maxSearchPageSize = 100
)

// Source is the Open Library catalog backend.
type Source struct {
	client *catalog.Client
	log    logger.Logger
}

var _ catalog.Source = (*Source)(nil)

// New returns an Open Library source using client for all calls.
func New(client *catalog.Client, log logger.Logger) *Source {
	return &Source{client: client, log: log}
}

func (s *Source) Name() string { return Name }

func (s *Source) MaxPageSize() int { return maxSearchPageSize }

// Search maps onto /search.json. Open Library pages are 1-based like ours.
func (s *Source) Search(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	limit := min(max(q.PageSize, 1), maxSearchPageSize)
	params := url.Values{
		"q":      {q.Text},
		"page":   {strconv.Itoa(max(q.Page, 1))},
		"limit":  {strconv.Itoa(limit)},
		"fields": {searchFields},
	}

	var resp searchResponse
	if err := s.client.FetchJSON(ctx, "/search.json", params, &resp); err != nil {
		return catalog.Page{}, err
	}

	books := make([]domain.Book, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		id := workID(doc.Key)
		if id == "" {
			continue
		}
		books = append(books, domain.Normalize(s.docToRaw(id, doc)))
	}

	return catalog.Page{Books: books, TotalFound: max(resp.NumFound, 0)}, nil
}

// Lookup fetches /works/{id}.json and resolves its authors. A merged work
// is followed once to the work it redirects to.
func (s *Source) Lookup(ctx context.Context, id string) (domain.Book, error) {
	id = workID(id)
	if id == "" {
		return domain.Book{}, catalog.ErrNotFound
	}

	w, err := s.fetchWork(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if w.isRedirect() {
		target := workID(w.Location)
		if target == "" || target == id {
			return domain.Book{}, fmt.Errorf("%w: work %s redirects nowhere", catalog.ErrNotFound, id)
		}
		s.log.Debug("openlibrary work redirected",
			logger.String("from", id), logger.String("to", target))

		id = target
		if w, err = s.fetchWork(ctx, id); err != nil {
			return domain.Book{}, err
		}
		if w.isRedirect() {
			return domain.Book{}, fmt.Errorf("%w: work %s redirects again", catalog.ErrNotFound, id)
		}
	}

	authors, err := s.resolveAuthors(ctx, w.Authors)
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to resolve authors of %s: %w", id, err)
	}

	raw := domain.RawBook{
		ID:            id,
		Title:         w.Title,
		Authors:       authors,
		Description:   string(w.Description),
		PublishedDate: w.FirstPublishDate,
		Categories:    w.Subjects,
		InfoLink:      fmt.Sprintf(workURLFormat, id),
	}
	for _, c := range w.Covers {
		if c > 0 {
			raw.Thumbnail = fmt.Sprintf(coverURLFormat, c)
			break
		}
	}

	return domain.Normalize(raw), nil
}

func (s *Source) fetchWork(ctx context.Context, id string) (work, error) {
	var w work
	err := s.client.FetchJSON(ctx, "/works/"+url.PathEscape(id)+".json", nil, &w)
	return w, err
}

// resolveAuthors fetches author names concurrently. The result keeps the
// work's author order. Authors Open Library no longer knows are skipped;
// any other failure fails the whole lookup so a degraded book is never
// served (or cached) as complete.
func (s *Source) resolveAuthors(ctx context.Context, refs []workAuthor) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	names := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxAuthorLookups)

	for i, ref := range refs {
		key := strings.TrimPrefix(ref.Author.Key, "/authors/")
		if key == "" {
			continue
		}
		g.Go(func() error {
			var a author
			err := s.client.FetchJSON(gctx, "/authors/"+url.PathEscape(key)+".json", nil, &a)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				return nil
			case err != nil:
				s.log.Warn("openlibrary author lookup failed",
					logger.String("author", key), logger.Error(err))
				return err
			}
			names[i] = firstNonBlank(a.Name, a.PersonalName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return names, nil
}

func (s *Source) docToRaw(id string, doc searchDoc) domain.RawBook {
	raw := domain.RawBook{
		ID:            id,
		Title:         doc.Title,
		Authors:       doc.AuthorNames,
		PageCount:     doc.PagesMedian,
		Categories:    doc.Subjects,
		AverageRating: doc.RatingsAverage,
		RatingsCount:  doc.RatingsCount,
		InfoLink:      fmt.Sprintf(workURLFormat, id),
	}
	if doc.CoverID != nil && *doc.CoverID > 0 {
		raw.Thumbnail = fmt.Sprintf(coverURLFormat, *doc.CoverID)
	}
	if doc.FirstPublishYear != nil {
		raw.PublishedDate = strconv.Itoa(*doc.FirstPublishYear)
	}
	for _, v := range doc.ISBN {
		clean, ok := domain.CleanISBN(v)
		switch {
		case !ok:
		case len(clean) == 13:
			raw.ISBN13 = append(raw.ISBN13, clean)
		default:
			raw.ISBN10 = append(raw.ISBN10, clean)
		}
	}
	return raw
}

// workID turns "/works/OL45804W" into "OL45804W".
func workID(key string) string {
	return strings.Trim(strings.TrimPrefix(strings.TrimSpace(key), "/works/"), "/")
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

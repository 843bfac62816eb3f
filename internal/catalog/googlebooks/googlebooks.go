package googlebooks

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

const (
	// Name identifies this provider in config and cache keys.
	Name = "googlebooks"

	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// MaxResults is the largest page the volumes endpoint accepts.
	MaxResults = 40
)

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Description         string   `json:"description"`
	PublishedDate       string   `json:"publishedDate"`
	PageCount           *int     `json:"pageCount"`
	Categories          []string `json:"categories"`
	AverageRating       *float64 `json:"averageRating"`
	RatingsCount        *int     `json:"ratingsCount"`
	PreviewLink         string   `json:"previewLink"`
	InfoLink            string   `json:"infoLink"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"` // ISBN_13, ISBN_10, OTHER
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

// Source is the Google Books catalog backend.
type Source struct {
	client *catalog.Client
	apiKey string
}

var _ catalog.Source = (*Source)(nil)

// New returns a Google Books source. apiKey may be empty (anonymous quota).
func New(client *catalog.Client, apiKey string) *Source {
	return &Source{client: client, apiKey: strings.TrimSpace(apiKey)}
}

func (s *Source) Name() string { return Name }

// MaxPageSize reports the largest page /volumes serves.
func (s *Source) MaxPageSize() int { return MaxResults }

// Search maps onto /volumes, translating the 1-based page into startIndex.
func (s *Source) Search(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	size := min(max(q.PageSize, 1), MaxResults)
	page := max(q.Page, 1)

	params := s.params()
	params.Set("q", q.Text)
	params.Set("startIndex", strconv.Itoa((page-1)*size))
	params.Set("maxResults", strconv.Itoa(size))
	params.Set("orderBy", "relevance")

	var resp volumesResponse
	if err := s.client.FetchJSON(ctx, "/volumes", params, &resp); err != nil {
		return catalog.Page{}, err
	}

	books := make([]domain.Book, 0, len(resp.Items))
	for _, item := range resp.Items {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		books = append(books, domain.Normalize(toRaw(item)))
	}

	return catalog.Page{Books: books, TotalFound: max(resp.TotalItems, 0)}, nil
}

// Lookup maps onto /volumes/{id}.
func (s *Source) Lookup(ctx context.Context, id string) (domain.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Book{}, catalog.ErrNotFound
	}

	var item volume
	if err := s.client.FetchJSON(ctx, "/volumes/"+url.PathEscape(id), s.params(), &item); err != nil {
		return domain.Book{}, err
	}
	if item.ID == "" {
		item.ID = id
	}
	return domain.Normalize(toRaw(item)), nil
}

func (s *Source) params() url.Values {
	v := url.Values{}
	if s.apiKey != "" {
		v.Set("key", s.apiKey)
	}
	return v
}

func toRaw(item volume) domain.RawBook {
	info := item.VolumeInfo
	raw := domain.RawBook{
		ID:            item.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   info.Description,
		Thumbnail:     firstNonBlank(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail),
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		PreviewLink:   info.PreviewLink,
		InfoLink:      info.InfoLink,
	}
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			raw.ISBN13 = append(raw.ISBN13, id.Identifier)
		case "ISBN_10":
			raw.ISBN10 = append(raw.ISBN10, id.Identifier)
		}
	}
	return raw
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

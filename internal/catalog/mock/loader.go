package mock

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
)

// Loader reads the mock catalog seed file.
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file, then normalizes every entry.
// Entries without an id are skipped; on duplicate ids the first one wins.
func (l *Loader) Load() ([]domain.Book, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed yaml: %w", err)
	}

	seen := make(map[string]bool, len(seed.Books))
	books := make([]domain.Book, 0, len(seed.Books))
	for _, sb := range seed.Books {
		id := strings.TrimSpace(sb.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		books = append(books, domain.Normalize(toRaw(sb)))
	}

	return books, nil
}

func toRaw(sb SeedBook) domain.RawBook {
	return domain.RawBook{
		ID:            sb.ID,
		Title:         sb.Title,
		Authors:       sb.Authors,
		Description:   sb.Description,
		Thumbnail:     sb.Thumbnail,
		OtherISBNs:    sb.ISBN,
		PublishedDate: sb.PublishedDate,
		PageCount:     sb.PageCount,
		Categories:    sb.Categories,
		AverageRating: sb.AverageRating,
		RatingsCount:  sb.RatingsCount,
		PreviewLink:   sb.PreviewLink,
		InfoLink:      sb.InfoLink,
	}
}

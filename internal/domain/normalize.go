package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	UnknownTitle       = "Title Unknown"
	UnknownAuthor      = "Author Unknown"
	NoDescription      = "No description available."
	PlaceholderCover   = "https://placehold.co/400x600.png"
	DefaultAIHint      = "book cover"
	MaxCategories      = 5
	isbnCoverURLFormat = "https://covers.openlibrary.org/b/isbn/%s-L.jpg"

	hintCategories    = 2
	hintWordsPerEntry = 2
)

// RawBook is what a provider adapter extracts from its own JSON before
// normalization. Every field is optional.
type RawBook struct {
	ID            string
	Title         string
	Authors       []string
	Description   string
	Thumbnail     string
	ISBN13        []string
	ISBN10        []string
	OtherISBNs    []string // identifiers of unknown kind, validated by length
	PublishedDate string
	PageCount     *int
	Categories    []string
	AverageRating *float64
	RatingsCount  *int
	PreviewLink   string
	InfoLink      string
}

// Normalize maps a raw provider record to a canonical Book.
// It never fails: absent fields become sentinels.
// The mapping is pure, so identical input always yields an identical Book.
func Normalize(raw RawBook) Book {
	categories := nonBlank(raw.Categories)
	if len(categories) > MaxCategories {
		categories = categories[:MaxCategories]
	}

	authors := nonBlank(raw.Authors)
	if len(authors) == 0 {
		authors = []string{UnknownAuthor}
	}

	isbn := pickISBN(raw)

	b := Book{
		ID:            strings.TrimSpace(raw.ID),
		Title:         orDefault(raw.Title, UnknownTitle),
		Authors:       authors,
		Description:   orDefault(raw.Description, NoDescription),
		CoverImage:    CoverURL(raw.Thumbnail, isbn),
		ISBN:          isbn,
		PublishedDate: strings.TrimSpace(raw.PublishedDate),
		Categories:    categories,
		AverageRating: copyFloat(raw.AverageRating),
		RatingsCount:  copyInt(raw.RatingsCount),
		PreviewLink:   strings.TrimSpace(raw.PreviewLink),
		InfoLink:      strings.TrimSpace(raw.InfoLink),
		DataAIHint:    AIHint(categories),
	}

	if raw.PageCount != nil && *raw.PageCount >= 0 {
		b.PageCount = copyInt(raw.PageCount)
	}

	return b
}

// CoverURL resolves the cover: provider thumbnail, then an ISBN-keyed
// cover, then the placeholder.
func CoverURL(thumbnail, isbn string) string {
	if t := strings.TrimSpace(thumbnail); t != "" {
		return t
	}
	if clean, ok := CleanISBN(isbn); ok {
		return fmt.Sprintf(isbnCoverURLFormat, clean)
	}
	return PlaceholderCover
}

// AIHint builds the data-ai-hint from the first two categories, keeping the
// first two words of each. Output only ever contains [a-z0-9 ].
func AIHint(categories []string) string {
	if len(categories) == 0 {
		return DefaultAIHint
	}

	n := min(len(categories), hintCategories)
	parts := make([]string, 0, n)
	for _, c := range categories[:n] {
		words := strings.Fields(strings.ToLower(c))
		if len(words) > hintWordsPerEntry {
			words = words[:hintWordsPerEntry]
		}
		parts = append(parts, strings.Join(words, " "))
	}

	hint := strings.TrimSpace(keepHintChars(strings.Join(parts, " ")))
	if hint == "" {
		return DefaultAIHint
	}
	return hint
}

func keepHintChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// CleanISBN strips separators and reports whether what is left is a
// 10- or 13-digit ISBN (ISBN-10 may end in X).
func CleanISBN(s string) (string, bool) {
	clean := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)

	switch len(clean) {
	case 13:
		return clean, allDigits(clean)
	case 10:
		body, check := clean[:9], clean[9]
		return clean, allDigits(body) && (check == 'X' || (check >= '0' && check <= '9'))
	default:
		return clean, false
	}
}

// pickISBN prefers ISBN-13, then ISBN-10, then any identifier that looks
// like either.
func pickISBN(raw RawBook) string {
	for _, group := range [][]string{raw.ISBN13, raw.ISBN10, raw.OtherISBNs} {
		for _, v := range group {
			if clean, ok := CleanISBN(v); ok {
				return clean
			}
		}
	}
	return ""
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

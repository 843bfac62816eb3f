package domain

// Book is the canonical, provider-independent book record.
//
// It is NOT tied to Open Library, Google Books or any other catalog.
// Every provider record goes through Normalize before it reaches a caller,
// so required fields are always populated.
//
// A Book is a value: copying it is fine, and a wishlisted Book is a frozen
// snapshot rather than a live reference to the catalog.
type Book struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the provider-specific identifier.
	// Example: OL45804W (Open Library work), zyTCAlFPjgYC (Google Books volume)
	ID string `json:"id"`

	// ─────────────────────────────
	// Always populated (sentinels when absent upstream)
	// ─────────────────────────────

	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`

	// CoverImage is a URL, falling back to a placeholder image.
	CoverImage string `json:"coverImage"`

	// ─────────────────────────────
	// Optional metadata
	// ─────────────────────────────

	ISBN          string   `json:"isbn,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	PageCount     *int     `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	RatingsCount  *int     `json:"ratingsCount,omitempty"`
	PreviewLink   string   `json:"previewLink,omitempty"`
	InfoLink      string   `json:"infoLink,omitempty"`

	// ─────────────────────────────
	// Derived
	// ─────────────────────────────

	// DataAIHint is a short lowercase hint for cover-image generation,
	// built from the first categories. Example: "science fiction"
	DataAIHint string `json:"dataAiHint,omitempty"`
}

// PaginatedResult is one page of search results.
// len(Books) never exceeds PageSize.
type PaginatedResult struct {
	Books      []Book `json:"books"`
	TotalFound int    `json:"totalFound"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

// Clone returns a deep copy so the receiver's slices and pointers are not shared.
func (b Book) Clone() Book {
	out := b
	out.Authors = cloneStrings(b.Authors)
	out.Categories = cloneStrings(b.Categories)
	if b.PageCount != nil {
		v := *b.PageCount
		out.PageCount = &v
	}
	if b.AverageRating != nil {
		v := *b.AverageRating
		out.AverageRating = &v
	}
	if b.RatingsCount != nil {
		v := *b.RatingsCount
		out.RatingsCount = &v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

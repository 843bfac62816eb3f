package mock

// SeedFile is the top-level structure of the mock catalog YAML file.
type SeedFile struct {
	Books []SeedBook `yaml:"books"`
}

// SeedBook is one catalog entry as written in the seed file.
type SeedBook struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Authors       []string `yaml:"authors,omitempty"`
	Description   string   `yaml:"description,omitempty"`
	Thumbnail     string   `yaml:"thumbnail,omitempty"`
	ISBN          []string `yaml:"isbn,omitempty"`
	PublishedDate string   `yaml:"publishedDate,omitempty"`
	PageCount     *int     `yaml:"pageCount,omitempty"`
	Categories    []string `yaml:"categories,omitempty"`
	AverageRating *float64 `yaml:"averageRating,omitempty"`
	RatingsCount  *int     `yaml:"ratingsCount,omitempty"`
	PreviewLink   string   `yaml:"previewLink,omitempty"`
	InfoLink      string   `yaml:"infoLink,omitempty"`
}

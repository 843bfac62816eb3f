package openlibrary

import (
	"bytes"
	"encoding/json"
)

// searchFields is the projection requested from search.json.
const searchFields = "key,title,author_name,cover_i,isbn,first_publish_year," +
	"number_of_pages_median,subject,ratings_average,ratings_count"

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"` // "/works/OL45804W"
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	CoverID          *int     `json:"cover_i"`
	ISBN             []string `json:"isbn"`
	FirstPublishYear *int     `json:"first_publish_year"`
	PagesMedian      *int     `json:"number_of_pages_median"`
	Subjects         []string `json:"subject"`
	RatingsAverage   *float64 `json:"ratings_average"`
	RatingsCount     *int     `json:"ratings_count"`
}

// redirectType marks a work merged into another one; Location names the target.
const redirectType = "/type/redirect"

type work struct {
	Key              string       `json:"key"`
	Type             typeRef      `json:"type"`
	Location         string       `json:"location"`
	Title            string       `json:"title"`
	Description      textValue    `json:"description"`
	Covers           []int        `json:"covers"`
	Subjects         []string     `json:"subjects"`
	Authors          []workAuthor `json:"authors"`
	FirstPublishDate string       `json:"first_publish_date"`
}

type typeRef struct {
	Key string `json:"key"`
}

func (w work) isRedirect() bool {
	return w.Type.Key == redirectType
}

type workAuthor struct {
	Author struct {
		Key string `json:"key"` // "/authors/OL34184A"
	} `json:"author"`
}

type author struct {
	Name         string `json:"name"`
	PersonalName string `json:"personal_name"`
}

// textValue accepts both "text" and {"type": "/type/text", "value": "text"}.
type textValue string

func (t *textValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = textValue(s)
		return nil
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	*t = textValue(typed.Value)
	return nil
}

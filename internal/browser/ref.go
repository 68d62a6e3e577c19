package browser

import (
	"net/url"

	"github.com/christianbooksai/companion/internal/models"
)

// BookRef is what a result link carries to the detail page
type BookRef struct {
	ID       string
	Title    string
	Author   string
	Year     string
	Category string
	Summary  string
	Image    string
	Query    string
}

func ParseBookRef(v url.Values) BookRef {
	return BookRef{
		ID:       v.Get("id"),
		Title:    v.Get("title"),
		Author:   v.Get("author"),
		Year:     v.Get("year"),
		Category: v.Get("category"),
		Summary:  v.Get("summary"),
		Image:    v.Get("image"),
		Query:    v.Get("q"),
	}
}

// RefFor builds the link parameters for a search result
func RefFor(query string, b models.BookResult) BookRef {
	return BookRef{
		ID:       b.IDString(),
		Title:    b.Title,
		Author:   b.Author,
		Year:     b.YearString(),
		Category: b.Category,
		Summary:  b.Summary,
		Image:    b.Image,
		Query:    query,
	}
}

// Values encodes the ref, skipping empty fields
func (r BookRef) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("id", r.ID)
	set("title", r.Title)
	set("author", r.Author)
	set("year", r.Year)
	set("category", r.Category)
	set("summary", r.Summary)
	set("image", r.Image)
	set("q", r.Query)
	return v
}

// Book returns the shallow record the ref describes
func (r BookRef) Book() *models.BookResult {
	return &models.BookResult{
		ID:       models.RawString(r.ID),
		Title:    r.Title,
		Author:   r.Author,
		Year:     models.RawString(r.Year),
		Category: r.Category,
		Summary:  r.Summary,
		Image:    r.Image,
	}
}

package library

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/christianbooksai/companion/internal/models"
)

var ErrNotFound = errors.New("book not found")

// Facet values offered by the library sidebar
var (
	Categories   = []string{"Christian Life", "Theology", "Sermons", "Church History"}
	Difficulties = []string{"Beginner", "Intermediate", "Advanced"}
	Eras         = []string{"Classics", "Modern"}
)

const (
	SortRecommended = "recommended"
	SortPopular     = "popular"
	SortAdded       = "added"
)

// Filter narrows the catalog. Each facet matches when the book carries any
// of the listed tags; an empty facet matches everything.
type Filter struct {
	Query        string
	Categories   []string
	Difficulties []string
	Eras         []string
	Sort         string
}

// Catalog is a read-only list of books in curated order
type Catalog struct {
	books []models.LibraryBook
}

func NewCatalog(books []models.LibraryBook) *Catalog {
	return &Catalog{books: books}
}

func (c *Catalog) Len() int {
	return len(c.books)
}

func (c *Catalog) Get(id string) (models.LibraryBook, error) {
	for _, b := range c.books {
		if b.ID == id {
			return b, nil
		}
	}
	return models.LibraryBook{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Search returns matching books in the requested order. The result is
// always a new, non-nil slice.
func (c *Catalog) Search(f Filter) []models.LibraryBook {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.LibraryBook, 0, len(c.books))
	for _, b := range c.books {
		if query != "" && !matchesQuery(b, query) {
			continue
		}
		if !hasAny(b.Tags, f.Categories) || !hasAny(b.Tags, f.Difficulties) || !hasAny(b.Tags, f.Eras) {
			continue
		}
		out = append(out, b)
	}

	switch f.Sort {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Popularity > out[j].Popularity
		})
	case SortAdded:
		slices.Reverse(out)
	}

	return out
}

func matchesQuery(b models.LibraryBook, query string) bool {
	return strings.Contains(strings.ToLower(b.Title), query) ||
		strings.Contains(strings.ToLower(b.Author), query) ||
		strings.Contains(strings.ToLower(b.Summary), query)
}

func hasAny(tags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if slices.Contains(tags, w) {
			return true
		}
	}
	return false
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/christianbooksai/companion/internal/library"
	"github.com/go-chi/chi/v5"
)

type libraryResponse struct {
	Books        any      `json:"books"`
	Total        int      `json:"total"`
	Categories   []string `json:"categories"`
	Difficulties []string `json:"difficulties"`
	Eras         []string `json:"eras"`
}

// HandleLibrary answers GET /api/library. Facets may repeat or be
// comma-separated: ?category=Theology&category=Sermons or ?category=Theology,Sermons
func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := q.Get("sort")
	switch sortBy {
	case "", library.SortRecommended, library.SortPopular, library.SortAdded:
	default:
		h.writeError(w, "Invalid sort: "+sortBy, http.StatusBadRequest)
		return
	}

	books := h.library.Search(library.Filter{
		Query:        q.Get("q"),
		Categories:   listParam(q["category"]),
		Difficulties: listParam(q["difficulty"]),
		Eras:         listParam(q["era"]),
		Sort:         sortBy,
	})

	h.writeJSON(w, http.StatusOK, libraryResponse{
		Books:        books,
		Total:        len(books),
		Categories:   library.Categories,
		Difficulties: library.Difficulties,
		Eras:         library.Eras,
	})
}

// HandleLibraryBook answers GET /api/library/{id}
func (h *Handler) HandleLibraryBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.library.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Book not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, book)
}

func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

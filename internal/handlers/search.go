package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/christianbooksai/companion/internal/discovery"
	"github.com/christianbooksai/companion/internal/models"
	"github.com/christianbooksai/companion/internal/prompts"
)

const (
	msgQueryRequired      = `Query parameter "q" is required`
	msgTitleAuthorMissing = "Title and Author required"
	msgDetailsFailed      = "Failed to fetch details"
)

// HandleSearch answers GET /api/search. Pipeline failures never surface as
// errors: the caller always gets a well-shaped payload.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, msgQueryRequired, http.StatusBadRequest)
		return
	}

	resp, err := h.discovery.Search(r.Context(), query)
	if err != nil {
		slog.Error("Search failed, returning degraded response", "query", query, "err", err)
		h.metrics.RecordSearch("degraded")
		h.writeJSON(w, http.StatusOK, discovery.Degraded())
		return
	}

	h.metrics.RecordSearch("ok")
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleBookDetails answers POST /api/book-details
func (h *Handler) HandleBookDetails(w http.ResponseWriter, r *http.Request) {
	var req models.BookDetailsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Invalid book details body", "err", err)
		h.metrics.RecordDetails("error")
		h.writeError(w, msgDetailsFailed, http.StatusInternalServerError)
		return
	}

	if req.Title == "" || req.Author == "" {
		h.writeError(w, msgTitleAuthorMissing, http.StatusBadRequest)
		return
	}

	details, err := h.discovery.BookDetails(r.Context(), req)
	if err != nil {
		if errors.Is(err, prompts.ErrInvalidInput) {
			h.writeError(w, msgTitleAuthorMissing, http.StatusBadRequest)
			return
		}
		slog.Error("Book details failed", "title", req.Title, "author", req.Author, "err", err)
		h.metrics.RecordDetails("error")
		h.writeError(w, msgDetailsFailed, http.StatusInternalServerError)
		return
	}

	h.metrics.RecordDetails("ok")
	h.writeJSON(w, http.StatusOK, details)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/christianbooksai/companion/internal/cards"
	"github.com/go-chi/chi/v5"
)

type progressRequest struct {
	Reflection string `json:"reflection"`
	Completed  bool   `json:"completed"`
}

type progressSummary struct {
	Entries   any `json:"entries"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func (h *Handler) HandleCards(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cards.List())
}

func (h *Handler) HandleCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Card not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

// HandleSaveProgress answers PUT /api/cards/{id}/progress
func (h *Handler) HandleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	progress, err := h.cards.SaveProgress(chi.URLParam(r, "id"), req.Reflection, req.Completed)
	if err != nil {
		if errors.Is(err, cards.ErrNotFound) {
			h.writeError(w, "Card not found", http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to save progress", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, progressSummary{
		Entries:   h.cards.Progress(),
		Completed: h.cards.Completed(),
		Total:     len(h.cards.List()),
	})
}

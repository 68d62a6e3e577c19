package handlers

import (
	"errors"
	"net/http"

	"github.com/christianbooksai/companion/internal/board"
	"github.com/go-chi/chi/v5"
)

type questionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	Author      string `json:"author"`
}

type answerRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type upvoteResponse struct {
	Upvotes int `json:"upvotes"`
}

// HandleQuestions answers GET /api/questions?q=&topic=&filter=
func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := q.Get("filter")
	switch filter {
	case "", board.SortRecent, board.SortTrending, board.SortUnanswered:
	default:
		h.writeError(w, "Invalid filter: "+filter, http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, h.board.List(board.Filter{
		Search: q.Get("q"),
		Topic:  q.Get("topic"),
		Sort:   filter,
	}))
}

func (h *Handler) HandlePostQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	question, err := h.board.Post(req.Title, req.Description, req.Topic, req.Author)
	if err != nil {
		h.writeBoardError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.board.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeBoardError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, question)
}

func (h *Handler) HandlePostAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	answer, err := h.board.Answer(chi.URLParam(r, "id"), req.Author, req.Content)
	if err != nil {
		h.writeBoardError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, answer)
}

func (h *Handler) HandleUpvote(w http.ResponseWriter, r *http.Request) {
	n, err := h.board.Upvote(chi.URLParam(r, "id"))
	if err != nil {
		h.writeBoardError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, upvoteResponse{Upvotes: n})
}

func (h *Handler) writeBoardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		h.writeError(w, "Question not found", http.StatusNotFound)
	case errors.Is(err, board.ErrInvalidInput):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/christianbooksai/companion/internal/board"
	"github.com/christianbooksai/companion/internal/cards"
	"github.com/christianbooksai/companion/internal/library"
	"github.com/christianbooksai/companion/internal/metrics"
	"github.com/christianbooksai/companion/internal/models"
)

// Discovery is the search and book-details pipeline
type Discovery interface {
	Search(ctx context.Context, query string) (*models.SearchResponse, error)
	BookDetails(ctx context.Context, req models.BookDetailsRequest) (*models.BookDetails, error)
}

// Config wires the handler's collaborators. Nil stores disable their routes.
type Config struct {
	Discovery Discovery
	Library   *library.Catalog
	Cards     *cards.Store
	Board     *board.Store
	Metrics   *metrics.Metrics
}

type Handler struct {
	discovery Discovery
	library   *library.Catalog
	cards     *cards.Store
	board     *board.Store
	metrics   *metrics.Metrics
}

func New(cfg Config) *Handler {
	return &Handler{
		discovery: cfg.Discovery,
		library:   cfg.Library,
		cards:     cfg.Cards,
		board:     cfg.Board,
		metrics:   cfg.Metrics,
	}
}

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

// decodeJSON decodes a request body of at most maxBodyBytes into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

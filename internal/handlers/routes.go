package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes builds the HTTP router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.HandleSearch)
		r.Post("/book-details", h.HandleBookDetails)

		if h.library != nil {
			r.Get("/library", h.HandleLibrary)
			r.Get("/library/{id}", h.HandleLibraryBook)
		}

		if h.cards != nil {
			r.Get("/cards", h.HandleCards)
			r.Get("/cards/progress", h.HandleProgress)
			r.Get("/cards/{id}", h.HandleCard)
			r.Put("/cards/{id}/progress", h.HandleSaveProgress)
		}

		if h.board != nil {
			r.Get("/questions", h.HandleQuestions)
			r.Post("/questions", h.HandlePostQuestion)
			r.Get("/questions/{id}", h.HandleQuestion)
			r.Post("/questions/{id}/answers", h.HandlePostAnswer)
			r.Post("/questions/{id}/upvote", h.HandleUpvote)
		}
	})

	r.Handle("/metrics", h.metrics.Handler())
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	return r
}

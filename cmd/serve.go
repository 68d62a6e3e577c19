package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/christianbooksai/companion/internal/board"
	"github.com/christianbooksai/companion/internal/cards"
	"github.com/christianbooksai/companion/internal/handlers"
	"github.com/christianbooksai/companion/internal/library"
	"github.com/christianbooksai/companion/internal/metrics"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the companion API server",
		Long: `Starts the companion JSON API on the specified port.

Endpoints:
  GET  /api/search?q=...        overview and book recommendations
  POST /api/book-details        deep-dive for one book
  GET  /api/library             curated library with filters
  GET  /api/cards               devotional cards and progress
  GET  /api/questions           community Q&A board
  GET  /metrics                 Prometheus metrics`,
		Example: `  # Start server on default port 8888
  companion serve

  # Start server on custom port with Ollama
  COMPANION_PROVIDER=ollama companion serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			m := metrics.New()
			svc, err := newDiscovery(cmd.Context(), cfg, m)
			if err != nil {
				return err
			}

			catalog, err := library.Load(cfg.LibraryCatalog)
			if err != nil {
				return err
			}
			deck, err := cards.New()
			if err != nil {
				return err
			}
			questions, err := board.New()
			if err != nil {
				return err
			}

			handler := handlers.New(handlers.Config{
				Discovery: svc,
				Library:   catalog,
				Cards:     deck,
				Board:     questions,
				Metrics:   m,
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Companion API available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider, "model", cfg.Model())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (overrides PORT)")

	return cmd
}

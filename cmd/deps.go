package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/christianbooksai/companion/internal/config"
	"github.com/christianbooksai/companion/internal/covers"
	"github.com/christianbooksai/companion/internal/discovery"
	"github.com/christianbooksai/companion/internal/gemini"
	"github.com/christianbooksai/companion/internal/metrics"
	"github.com/christianbooksai/companion/internal/ollama"
	"github.com/christianbooksai/companion/internal/openai"
	"github.com/christianbooksai/companion/internal/providers"
)

func newRegistry(cfg *config.Config) *providers.Registry {
	registry := providers.NewRegistry()
	registry.Register("openai", openai.New(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	}))
	registry.Register("gemini", gemini.New(cfg.GeminiAPIKey))
	registry.Register("ollama", ollama.New(cfg.OllamaURL))
	return registry
}

// newDiscovery builds the search pipeline for the configured provider.
// Missing credentials are only warned about: each completion then fails and
// the search endpoint answers with its degraded payload.
func newDiscovery(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*discovery.Service, error) {
	if err := cfg.Validate(); err != nil {
		slog.Warn("Configuration incomplete, completions will fail", "err", err)
	}

	provider, err := newRegistry(cfg).Get(cfg.Provider)
	if err != nil {
		return nil, err
	}

	fetcher, err := covers.NewFetcher(ctx, covers.Config{
		APIKey:   cfg.GoogleBooksAPIKey,
		Endpoint: cfg.GoogleBooksEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cover fetcher: %w", err)
	}

	slog.Debug("Discovery configured", "provider", cfg.Provider, "model", cfg.Model(), "attempts", cfg.CompletionAttempts)

	return discovery.NewService(discovery.Config{
		Provider:     providers.WithAttempts(provider, cfg.CompletionAttempts),
		ProviderName: cfg.Provider,
		Model:        cfg.Model(),
		Covers:       fetcher,
		Metrics:      m,
	}), nil
}

package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/christianbooksai/companion/internal/metrics"
	"github.com/christianbooksai/companion/internal/models"
	"github.com/christianbooksai/companion/internal/prompts"
	"github.com/christianbooksai/companion/internal/providers"
)

// DegradedOverview replaces the overview whenever the search pipeline fails
const DegradedOverview = "We are currently experiencing high traffic. Please try again."

const (
	searchTemperature  = 0.7
	searchMaxTokens    = 2000
	detailsTemperature = 0.7
)

// Config wires the search pipeline
type Config struct {
	Provider     providers.Provider
	ProviderName string
	Model        string
	Covers       CoverFinder
	Metrics      *metrics.Metrics
}

// Service runs prompt building, completion, and enrichment for both the
// search and book-details flows
type Service struct {
	provider     providers.Provider
	providerName string
	model        string
	covers       CoverFinder
	metrics      *metrics.Metrics
}

func NewService(cfg Config) *Service {
	return &Service{
		provider:     cfg.Provider,
		providerName: cfg.ProviderName,
		model:        cfg.Model,
		covers:       cfg.Covers,
		metrics:      cfg.Metrics,
	}
}

// Degraded returns the well-shaped payload used when the search fails
func Degraded() *models.SearchResponse {
	return &models.SearchResponse{
		AIOverview: models.AIOverview{Content: DegradedOverview},
		Results:    []models.BookResult{},
	}
}

// Search asks the completion service for an overview and recommendations,
// then decorates each recommendation with a cover image
func (s *Service) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	prompt := prompts.Search(query)

	raw, err := s.complete(ctx, "search", providers.Request{
		Model:       s.model,
		System:      prompt.System,
		User:        prompt.User,
		Temperature: searchTemperature,
		MaxTokens:   searchMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := ParseSearch(raw)
	if err != nil {
		return nil, err
	}

	resp.Results = Enrich(ctx, s.covers, resp.Results, s.metrics.RecordCoverLookup)

	slog.Info("Search completed", "query", query, "results", len(resp.Results))
	return resp, nil
}

// BookDetails fetches the narrative deep-dive fields for one book
func (s *Service) BookDetails(ctx context.Context, req models.BookDetailsRequest) (*models.BookDetails, error) {
	prompt, err := prompts.Details(req.Query, req.Title, req.Author)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, "details", providers.Request{
		Model:       s.model,
		System:      prompt.System,
		User:        prompt.User,
		Temperature: detailsTemperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	details, err := ParseDetails(raw)
	if err != nil {
		return nil, err
	}

	slog.Info("Book details generated", "title", req.Title, "author", req.Author)
	return details, nil
}

func (s *Service) complete(ctx context.Context, variant string, req providers.Request) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("%w: no completion provider configured", providers.ErrUpstream)
	}

	start := time.Now()
	raw, err := s.provider.Complete(ctx, req)
	s.metrics.RecordCompletion(s.providerName, variant, time.Since(start), err)
	if err != nil {
		return "", err
	}

	slog.Debug("Completion received", "variant", variant, "provider", s.providerName, "length", len(raw))
	return raw, nil
}

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/christianbooksai/companion/internal/providers"
	"golang.org/x/sync/errgroup"
)

// PlaceholderImage is used when no cover could be found
const PlaceholderImage = "https://placehold.co/400x600?text=No+Cover+Found"

// ErrTruncated marks a completion that was cut off before its closing brace
var ErrTruncated = fmt.Errorf("%w: response truncated", providers.ErrUpstream)

// CoverFinder resolves a cover image URL. An empty string means none was
// found; implementations must not fail.
type CoverFinder interface {
	Lookup(ctx context.Context, title, author string) string
}

// ParseSearch checks the raw completion for truncation, decodes it, and
// normalizes a missing results list to an empty one.
//
// The trailing-brace test is a weak proxy: a generation cut off right after
// a nested object still passes, and the error surfaces in the decode step.
func ParseSearch(raw string) (*models.SearchResponse, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasSuffix(trimmed, "}") {
		return nil, ErrTruncated
	}

	var resp models.SearchResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse completion JSON: %w", providers.ErrUpstream, err)
	}

	if resp.Results == nil {
		resp.Results = []models.BookResult{}
	}

	return &resp, nil
}

// ParseDetails decodes the book-details completion as-is
func ParseDetails(raw string) (*models.BookDetails, error) {
	var details models.BookDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("%w: failed to parse completion JSON: %w", providers.ErrUpstream, err)
	}
	if details.Quotes == nil {
		details.Quotes = []string{}
	}
	return &details, nil
}

// Enrich looks up every cover concurrently and waits for all of them. The
// returned slice is a copy, index-aligned with results, with Image always set.
func Enrich(ctx context.Context, finder CoverFinder, results []models.BookResult, onLookup func(found bool)) []models.BookResult {
	enriched := make([]models.BookResult, len(results))
	copy(enriched, results)

	g, gctx := errgroup.WithContext(ctx)
	found := make([]bool, len(enriched))

	for i := range enriched {
		g.Go(func() error {
			if finder == nil {
				return nil
			}
			if url := finder.Lookup(gctx, enriched[i].Title, enriched[i].Author); url != "" {
				enriched[i].Image = url
				found[i] = true
			}
			return nil
		})
	}
	// Lookups never return errors
	_ = g.Wait()

	for i := range enriched {
		if !found[i] {
			enriched[i].Image = PlaceholderImage
		}
		if onLookup != nil {
			onLookup(found[i])
		}
	}

	return enriched
}

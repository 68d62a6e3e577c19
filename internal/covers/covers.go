package covers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	books "google.golang.org/api/books/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Config configures the Google Books client
type Config struct {
	APIKey     string       // Optional, raises the anonymous quota
	Endpoint   string       // Optional base URL override (tests)
	HTTPClient *http.Client // Optional
}

// Fetcher looks up book cover thumbnails on Google Books
type Fetcher struct {
	service *books.Service
	apiKey  string
}

// NewFetcher creates a Google Books cover fetcher. The HTTP client is always
// supplied explicitly so no application default credentials are required.
func NewFetcher(ctx context.Context, cfg Config) (*Fetcher, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := books.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Books client: %w", err)
	}

	return &Fetcher{service: service, apiKey: cfg.APIKey}, nil
}

// Query builds the volumes search for a title/author pair
func Query(title, author string) string {
	return fmt.Sprintf("intitle:%s inauthor:%s", title, author)
}

// Lookup returns the first match's thumbnail over https, or "" when nothing
// usable comes back. It never fails: every error is logged and dropped.
func (f *Fetcher) Lookup(ctx context.Context, title, author string) string {
	call := f.service.Volumes.List(Query(title, author)).MaxResults(1).Context(ctx)

	var callOpts []googleapi.CallOption
	if f.apiKey != "" {
		callOpts = append(callOpts, googleapi.QueryParameter("key", f.apiKey))
	}

	volumes, err := call.Do(callOpts...)
	if err != nil {
		slog.Warn("Failed to fetch cover", "title", title, "author", author, "err", err)
		return ""
	}

	if len(volumes.Items) == 0 || volumes.Items[0] == nil {
		slog.Debug("No Google Books match", "title", title, "author", author)
		return ""
	}

	info := volumes.Items[0].VolumeInfo
	if info == nil || info.ImageLinks == nil {
		return ""
	}

	link := info.ImageLinks.Thumbnail
	if link == "" {
		link = info.ImageLinks.SmallThumbnail
	}
	if link == "" {
		return ""
	}

	// Avoid mixed content on https pages
	return strings.Replace(link, "http://", "https://", 1)
}

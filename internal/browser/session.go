package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/christianbooksai/companion/internal/searchcache"
)

var ErrBookNotFound = errors.New("book not found")

// Session is a client of the companion API that remembers the last search,
// the way the browser front end does between the results and detail pages
type Session struct {
	baseURL    string
	httpClient *http.Client
	cache      *searchcache.Cache
}

// NewSession creates a session against baseURL. A nil cache gets a fresh one.
func NewSession(baseURL string, httpClient *http.Client, cache *searchcache.Cache) *Session {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	if cache == nil {
		cache = searchcache.New()
	}
	return &Session{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		cache:      cache,
	}
}

func (s *Session) Cache() *searchcache.Cache {
	return s.cache
}

// Search returns the cached response for q when there is one, otherwise asks
// the server and caches the answer
func (s *Session) Search(ctx context.Context, q string) (*models.SearchResponse, error) {
	if s.cache.IsCached(q) {
		_, data := s.cache.Get()
		slog.Debug("Search served from cache", "query", q)
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/search?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var resp models.SearchResponse
	if err := s.do(req, &resp); err != nil {
		return nil, err
	}

	s.cache.Set(q, &resp)
	return &resp, nil
}

// Details calls /api/book-details
func (s *Session) Details(ctx context.Context, body models.BookDetailsRequest) (*models.BookDetails, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/book-details", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var details models.BookDetails
	if err := s.do(req, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Book resolves a book for the detail view. The cached search is consulted
// first by id, then the fields carried in ref. When the deep-dive fields are
// missing they are fetched; a failed fetch still returns the shallow record.
func (s *Session) Book(ctx context.Context, ref BookRef) (*models.BookResult, error) {
	cachedQuery, data := s.cache.Get()

	var book *models.BookResult
	if data != nil && ref.ID != "" {
		for i := range data.Results {
			if data.Results[i].IDString() == ref.ID {
				b := data.Results[i]
				book = &b
				break
			}
		}
	}
	if book == nil {
		if ref.Title == "" {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, ref.ID)
		}
		book = ref.Book()
	}

	if book.ApplicationParagraph != "" {
		return book, nil
	}

	query := ref.Query
	if query == "" {
		query = cachedQuery
	}

	details, err := s.Details(ctx, models.BookDetailsRequest{
		Query:  query,
		Title:  book.Title,
		Author: book.Author,
	})
	if err != nil {
		slog.Warn("Failed to load book details", "title", book.Title, "err", err)
		return book, nil
	}

	book.ApplyDetails(details)
	return book, nil
}

func (s *Session) do(req *http.Request, v any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s returned status %d: %s", req.URL.Path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s returned status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

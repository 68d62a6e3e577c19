package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/christianbooksai/companion/internal/models"
	"github.com/christianbooksai/companion/internal/prompts"
	"github.com/christianbooksai/companion/internal/providers"
)

type stubProvider struct {
	mu       sync.Mutex
	response string
	err      error
	requests []providers.Request
}

func (s *stubProvider) Complete(ctx context.Context, req providers.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.response, s.err
}

type mapFinder map[string]string

func (m mapFinder) Lookup(ctx context.Context, title, author string) string {
	return m[title]
}

const fourBooks = `{
  "aiOverview": {"content": "God meets us in our grief."},
  "results": [
    {"id": "1", "title": "A Grief Observed", "author": "C.S. Lewis", "year": 1961, "category": "Memoir", "summary": "s1"},
    {"id": 2, "title": "Lament for a Son", "author": "Nicholas Wolterstorff", "year": "1987", "category": "Memoir", "summary": "s2"},
    {"id": "3", "title": "Dark Clouds, Deep Mercy", "author": "Mark Vroegop", "year": "2019", "category": "Theology", "summary": "s3"},
    {"id": "4", "title": "Walking with God through Pain and Suffering", "author": "Timothy Keller", "year": "2013", "category": "Theology", "summary": "s4"}
  ]
}`

func TestParseSearch(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantErr     error
		wantResults int
	}{
		{name: "truncated", raw: `{"aiOverview":{"content":"Grace is`, wantErr: ErrTruncated},
		{name: "trailing whitespace allowed", raw: "{\"aiOverview\":{\"content\":\"x\"},\"results\":[]}\n  ", wantResults: 0},
		{name: "missing results", raw: `{"aiOverview":{"content":"x"}}`, wantResults: 0},
		{name: "invalid JSON with brace", raw: `{"aiOverview": }`, wantErr: providers.ErrUpstream},
		{name: "four results", raw: fourBooks, wantResults: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseSearch(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if resp.Results == nil {
				t.Fatal("Expected non-nil results")
			}
			if len(resp.Results) != tt.wantResults {
				t.Errorf("Expected %d results, got %d", tt.wantResults, len(resp.Results))
			}
		})
	}
}

func TestSearchResultsRoundTripVerbatim(t *testing.T) {
	raw := `{"aiOverview":{"content":"x"},"results":[` +
		`{"id":2,"title":"A Grief Observed","author":"C.S. Lewis","year":1961,"historicalContext":"Written after Joy's death","tags":["grief"]}]}`

	resp, err := ParseSearch(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	resp.Results = Enrich(context.Background(), mapFinder{}, resp.Results, nil)

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	body := string(out)
	for _, want := range []string{
		`"id":2`,
		`"year":1961`,
		`"historicalContext":"Written after Joy's death"`,
		`"tags":["grief"]`,
		`"image":"` + PlaceholderImage + `"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in %s", want, body)
		}
	}
	if resp.Results[0].YearString() != "1961" || resp.Results[0].IDString() != "2" {
		t.Errorf("Unexpected id/year text %q/%q", resp.Results[0].IDString(), resp.Results[0].YearString())
	}
}

func TestParseSearchRejectsNonStringTitle(t *testing.T) {
	_, err := ParseSearch(`{"aiOverview":{"content":"x"},"results":[{"title":42,"author":"Anon"}]}`)
	if !errors.Is(err, providers.ErrUpstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestSearchOffTypeOptionalFields(t *testing.T) {
	raw := `{"aiOverview":{"content":"God meets us in our grief."},"results":[
  {"id":"1","title":"A Grief Observed","author":"C.S. Lewis","quotes":"one quote"},
  {"id":"2","title":"Lament for a Son","author":"Nicholas Wolterstorff","year":[1987]},
  {"id":"3","title":"Dark Clouds, Deep Mercy","author":"Mark Vroegop","summary":{"short":"s3"}},
  {"id":"4","title":"Walking with God through Pain and Suffering","author":"Timothy Keller","year":"2013"}
]}`
	svc := NewService(Config{Provider: &stubProvider{response: raw}, Covers: mapFinder{"Lament for a Son": "https://books.google.com/l.jpg"}})

	resp, err := svc.Search(context.Background(), "How do I deal with grief?")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(resp.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(resp.Results))
	}
	for i, r := range resp.Results {
		if r.Image == "" {
			t.Errorf("Result %d: expected an image", i)
		}
	}
	if resp.Results[1].Image != "https://books.google.com/l.jpg" {
		t.Errorf("Expected cover for second result, got %q", resp.Results[1].Image)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	body := string(out)
	for _, want := range []string{`"quotes":"one quote"`, `"year":[1987]`, `"summary":{"short":"s3"}`, `"year":"2013"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in %s", want, body)
		}
	}
}

func TestParseDetails(t *testing.T) {
	details, err := ParseDetails(`{"applicationParagraph":"a","aiInterpretation":"b","devotionalQuestion":"c","practicalTip":"d"}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if details.Quotes == nil || len(details.Quotes) != 0 {
		t.Errorf("Expected empty quotes, got %v", details.Quotes)
	}
	if details.PracticalTip != "d" {
		t.Errorf("Expected practical tip 'd', got %q", details.PracticalTip)
	}

	if _, err := ParseDetails("not json"); !errors.Is(err, providers.ErrUpstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestEnrich(t *testing.T) {
	results := []models.BookResult{
		{Title: "Knowing God", Author: "J.I. Packer", Image: "stale"},
		{Title: "Unknown Tract", Author: "Anon"},
	}
	finder := mapFinder{"Knowing God": "https://books.google.com/kg.jpg"}

	var found, missed int
	var mu sync.Mutex
	got := Enrich(context.Background(), finder, results, func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		if ok {
			found++
		} else {
			missed++
		}
	})

	if got[0].Image != "https://books.google.com/kg.jpg" {
		t.Errorf("Expected cover for first book, got %q", got[0].Image)
	}
	if got[1].Image != PlaceholderImage {
		t.Errorf("Expected placeholder for second book, got %q", got[1].Image)
	}
	if results[0].Image != "stale" {
		t.Error("Expected input slice to be left unchanged")
	}
	if found != 1 || missed != 1 {
		t.Errorf("Expected 1 found and 1 missed, got %d and %d", found, missed)
	}
}

func TestEnrichNilFinder(t *testing.T) {
	got := Enrich(context.Background(), nil, []models.BookResult{{Title: "Orthodoxy"}}, nil)
	if got[0].Image != PlaceholderImage {
		t.Errorf("Expected placeholder, got %q", got[0].Image)
	}
}

func TestSearch(t *testing.T) {
	provider := &stubProvider{response: fourBooks}
	finder := mapFinder{}
	for i, title := range []string{
		"A Grief Observed",
		"Lament for a Son",
		"Dark Clouds, Deep Mercy",
		"Walking with God through Pain and Suffering",
	} {
		finder[title] = fmt.Sprintf("https://books.google.com/%d.jpg", i)
	}

	svc := NewService(Config{Provider: provider, ProviderName: "stub", Model: "gpt-4o-mini", Covers: finder})
	resp, err := svc.Search(context.Background(), "How do I deal with grief?")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.AIOverview.Content != "God meets us in our grief." {
		t.Errorf("Unexpected overview %q", resp.AIOverview.Content)
	}
	if len(resp.Results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(resp.Results))
	}

	seen := make(map[string]bool)
	for i, r := range resp.Results {
		expected := fmt.Sprintf("https://books.google.com/%d.jpg", i)
		if r.Image != expected {
			t.Errorf("Result %d: expected image %q, got %q", i, expected, r.Image)
		}
		seen[r.Image] = true
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 distinct images, got %d", len(seen))
	}

	if len(provider.requests) != 1 {
		t.Fatalf("Expected 1 completion request, got %d", len(provider.requests))
	}
	req := provider.requests[0]
	if req.User != "How do I deal with grief?" {
		t.Errorf("Expected raw query as user message, got %q", req.User)
	}
	if req.MaxTokens != 2000 || req.Temperature != 0.7 || !req.JSON {
		t.Errorf("Unexpected request parameters: %+v", req)
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %q", req.Model)
	}
}

func TestSearchOutOfScopePassthrough(t *testing.T) {
	provider := &stubProvider{response: `{"aiOverview":{"content":"` + prompts.OutOfScope + `"},"results":[]}`}
	svc := NewService(Config{Provider: provider, Covers: mapFinder{}})

	resp, err := svc.Search(context.Background(), "Who should I vote for?")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.AIOverview.Content != prompts.OutOfScope {
		t.Errorf("Expected out-of-scope sentinel, got %q", resp.AIOverview.Content)
	}
	if len(resp.Results) != 0 {
		t.Errorf("Expected no results, got %d", len(resp.Results))
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider providers.Provider
	}{
		{name: "truncated", provider: &stubProvider{response: `{"aiOverview":{"content":"Grace`}},
		{name: "upstream failure", provider: &stubProvider{err: fmt.Errorf("%w: status 500", providers.ErrUpstream)}},
		{name: "no provider", provider: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(Config{Provider: tt.provider})
			if _, err := svc.Search(context.Background(), "grace"); !errors.Is(err, providers.ErrUpstream) {
				t.Errorf("Expected upstream error, got %v", err)
			}
		})
	}
}

func TestDegraded(t *testing.T) {
	d := Degraded()
	if d.AIOverview.Content != DegradedOverview {
		t.Errorf("Unexpected overview %q", d.AIOverview.Content)
	}
	if d.Results == nil || len(d.Results) != 0 {
		t.Errorf("Expected empty non-nil results, got %v", d.Results)
	}
}

func TestBookDetails(t *testing.T) {
	provider := &stubProvider{response: `{"applicationParagraph":"p","aiInterpretation":"i","quotes":["q1","q2"],"devotionalQuestion":"d","practicalTip":"t"}`}
	svc := NewService(Config{Provider: provider, Model: "gpt-4o-mini"})

	details, err := svc.BookDetails(context.Background(), models.BookDetailsRequest{
		Query:  "anxiety",
		Title:  "Calm My Anxious Heart",
		Author: "Linda Dillow",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(details.Quotes) != 2 {
		t.Errorf("Expected 2 quotes, got %d", len(details.Quotes))
	}

	req := provider.requests[0]
	if !strings.Contains(req.User, "Calm My Anxious Heart") {
		t.Errorf("Expected title in user message, got %q", req.User)
	}
	if !strings.Contains(req.System, "anxiety") {
		t.Error("Expected query in system prompt")
	}
	if req.MaxTokens != 0 {
		t.Errorf("Expected no token cap on details, got %d", req.MaxTokens)
	}
}

func TestBookDetailsInvalidInput(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(Config{Provider: provider})

	_, err := svc.BookDetails(context.Background(), models.BookDetailsRequest{Title: "Orthodoxy"})
	if !errors.Is(err, prompts.ErrInvalidInput) {
		t.Errorf("Expected invalid input error, got %v", err)
	}
	if len(provider.requests) != 0 {
		t.Error("Expected no completion request for invalid input")
	}
}

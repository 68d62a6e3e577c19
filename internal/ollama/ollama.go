package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/christianbooksai/companion/internal/providers"
)

const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "llama3.1"
)

// Ollama is a provider for a local Ollama server
type Ollama struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a new Ollama provider
func New(baseURL string) *Ollama {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Ollama{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete calls /api/chat with streaming disabled
func (o *Ollama) Complete(ctx context.Context, req providers.Request) (string, error) {
	body := map[string]any{
		"model": req.Model,
		"messages": []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		"stream": false,
	}
	options := map[string]any{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	if len(options) > 0 {
		body["options"] = options
	}
	if req.JSON {
		body["format"] = "json"
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %w", providers.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: received non-200 status code: %d - %s", providers.ErrUpstream, resp.StatusCode, string(respBody))
	}

	var response struct {
		Message chatMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: failed to decode response body: %w", providers.ErrUpstream, err)
	}

	if response.Message.Content == "" {
		return "", fmt.Errorf("%w: empty response from Ollama", providers.ErrUpstream)
	}

	return response.Message.Content, nil
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/christianbooksai/companion/internal/providers"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// DefaultModel is used when OPENAI_MODEL is unset
const DefaultModel = "gpt-4o-mini"

// Config holds configuration for the OpenAI client
type Config struct {
	APIKey     string
	BaseURL    string       // Optional (tests, compatible gateways)
	HTTPClient *http.Client // Optional (tests)
	Timeout    time.Duration
}

// OpenAI is a completion provider backed by the official SDK
type OpenAI struct {
	apiKey string
	client openai.Client
}

// New returns a new OpenAI provider
func New(cfg Config) *OpenAI {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// One attempt per request; retries are configured above the provider.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		apiKey: cfg.APIKey,
		client: openai.NewClient(opts...),
	}
}

// Complete sends the system and user messages and returns the single choice's content
func (o *OpenAI) Complete(ctx context.Context, req providers.Request) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY environment variable not set", providers.ErrUpstream)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", providers.ErrUpstream, mapOpenAIError(err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned from OpenAI", providers.ErrUpstream)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: no content received from OpenAI", providers.ErrUpstream)
	}

	return content, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI error (status %d)", apiErr.StatusCode)
	}
	return err
}

package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/christianbooksai/companion/internal/providers"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// Complete runs one generation with the system prompt as system instruction
func (g *Gemini) Complete(ctx context.Context, req providers.Request) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", providers.ErrUpstream)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create new gemini client: %w", providers.ErrUpstream, err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", fmt.Errorf("%w: failed to generate content: %w", providers.ErrUpstream, err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned from Gemini", providers.ErrUpstream)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content returned from Gemini", providers.ErrUpstream)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: unexpected response format from Gemini", providers.ErrUpstream)
	}

	return sb.String(), nil
}

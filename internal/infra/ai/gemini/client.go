package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
)

const DefaultModel = "gemini-1.5-flash"

// contentGenerator is satisfied by (*genai.Client).Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client generates text with Google's Gemini API.
type Client struct {
	models          contentGenerator
	model           string
	maxOutputTokens int32
}

// NewClient creates a Gemini client for the given API key.
func NewClient(ctx context.Context, apiKey, model string, maxOutputTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, ai.ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{models: cli.Models, model: model, maxOutputTokens: int32(maxOutputTokens)}, nil
}

func (c *Client) Model() string { return c.model }

// Generate sends a single-turn prompt and returns the concatenated text parts.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if c.maxOutputTokens > 0 {
		cfg = &genai.GenerateContentConfig{MaxOutputTokens: c.maxOutputTokens}
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return "", ai.ErrEmptyResponse
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ai.ErrEmptyResponse, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "Error 429")
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiGenerator implements domain.TextGenerator on the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiGenerator creates a Gemini client. timeout bounds each call when positive.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, timeout time.Duration) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, timeout: timeout}, nil
}

// Generate implements domain.TextGenerator
func (g *GeminiGenerator) Generate(ctx context.Context, modelID string, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelID, genai.Text(prompt), nil)
	if err != nil {
		return "", mapGeminiError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", domain.NewLLMServiceError(fmt.Errorf("empty response from model %s", modelID))
	}
	return text, nil
}

// genai returns APIError by value.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return domain.NewRateLimitedError(err)
	}
	return domain.NewLLMServiceError(err)
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaGenerator implements domain.TextGenerator against a local Ollama server.
// The model is chosen per call, so one client serves both endpoints.
type OllamaGenerator struct {
	llm     llms.Model
	timeout time.Duration
}

func NewOllamaGenerator(cfg config.OllamaConfig, defaultModel string, timeout time.Duration) (*OllamaGenerator, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server URL is required")
	}

	client, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(defaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaGenerator{llm: client, timeout: timeout}, nil
}

// Generate implements domain.TextGenerator
func (g *OllamaGenerator) Generate(ctx context.Context, modelID string, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithModel(modelID))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewLLMServiceError(fmt.Errorf("ollama request timed out: %w", err))
		}
		if domain.IsRateLimited(err) {
			return "", domain.NewRateLimitedError(err)
		}
		return "", domain.NewLLMServiceError(err)
	}
	return response, nil
}

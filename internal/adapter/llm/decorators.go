package llm

import (
	"context"
	"interview-coach/internal/domain"
	"interview-coach/internal/logger"
	"time"

	"go.uber.org/zap"
)

// Acquirer is the part of ratelimit.Limiter the gate needs.
type Acquirer interface {
	Acquire(ctx context.Context) error
}

// RateLimitedGenerator waits on the limiter before every call to the inner generator.
type RateLimitedGenerator struct {
	inner   domain.TextGenerator
	limiter Acquirer
}

// WithRateLimit wraps a generator so each call first passes through limiter.
func WithRateLimit(inner domain.TextGenerator, limiter Acquirer) *RateLimitedGenerator {
	return &RateLimitedGenerator{inner: inner, limiter: limiter}
}

func (g *RateLimitedGenerator) Generate(ctx context.Context, modelID string, prompt string) (string, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	return g.inner.Generate(ctx, modelID, prompt)
}

// LoggingGenerator logs model, latency and outcome of every call.
type LoggingGenerator struct {
	inner domain.TextGenerator
}

func WithLogging(inner domain.TextGenerator) *LoggingGenerator {
	return &LoggingGenerator{inner: inner}
}

func (g *LoggingGenerator) Generate(ctx context.Context, modelID string, prompt string) (string, error) {
	start := time.Now()
	text, err := g.inner.Generate(ctx, modelID, prompt)
	latency := time.Since(start)

	l := logger.Get()
	if err != nil {
		l.Error("Generation call failed",
			zap.String("model", modelID),
			zap.Duration("latency", latency),
			zap.Bool("rate_limited", domain.IsRateLimited(err)),
			zap.Error(err))
		return "", err
	}

	l.Debug("Generation call succeeded",
		zap.String("model", modelID),
		zap.Duration("latency", latency),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", len(text)))
	return text, nil
}

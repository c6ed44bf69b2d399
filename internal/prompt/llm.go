package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// LLMGenerator generates questions with a langchaingo-backed model.
type LLMGenerator struct {
	model  llms.Model
	logger *slog.Logger
}

// LLMOption is a functional option for configuring LLMGenerator.
type LLMOption func(*LLMGenerator)

// WithLogger configures the generator to use the specified structured logger.
func WithLogger(logger *slog.Logger) LLMOption {
	return func(g *LLMGenerator) {
		g.logger = logger
	}
}

// NewLLMGenerator creates a Generator backed by the given model.
func NewLLMGenerator(model llms.Model, opts ...LLMOption) *LLMGenerator {
	g := &LLMGenerator{
		model:  model,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Question implements Generator. Errors are returned to the caller, which is
// expected to substitute DefaultQuestion; they never fail the run.
func (g *LLMGenerator) Question(ctx context.Context, req Request) (string, error) {
	promptText := buildPrompt(req)

	completion, err := llms.GenerateFromSinglePrompt(ctx, g.model, promptText,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(128),
	)
	if err != nil {
		g.logger.WarnContext(ctx, "question generation failed",
			"error", err,
		)
		return "", fmt.Errorf("generating question: %w", err)
	}

	question := strings.TrimSpace(completion)
	if question == "" {
		return "", fmt.Errorf("model returned an empty question")
	}

	return question, nil
}

// Package llm adapts generative backends to the TextGenerator contract.
// Sampling configuration is fixed at construction; requests carry only a
// prompt.
package llm

import (
	"context"
	"fmt"

	"docquiz/internal/config"
	"docquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

type googleAIGenerator struct {
	model       *googleai.GoogleAI
	temperature float64
	maxTokens   int
}

// NewGoogleAIGenerator connects to the Gemini API. The model replies in JSON
// mode, which removes most of the code-fence wrapping the parser otherwise
// has to strip.
func NewGoogleAIGenerator(ctx context.Context, cfg config.LLMConfig) (domain.TextGenerator, error) {
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GoogleAI.APIKey),
		googleai.WithDefaultModel(cfg.GoogleAI.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}
	return &googleAIGenerator{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}, nil
}

func (g *googleAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("googleai generate: %w", err)
	}
	return out, nil
}

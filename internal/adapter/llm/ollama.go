package llm

import (
	"context"
	"fmt"
	"strings"

	"docquiz/internal/config"
	"docquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

type ollamaGenerator struct {
	model       *ollama.LLM
	temperature float64
	maxTokens   int
}

// NewOllamaGenerator connects to a local Ollama server, for running the
// pipeline without cloud credentials.
func NewOllamaGenerator(cfg config.LLMConfig) (domain.TextGenerator, error) {
	model, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.ServerURL),
		ollama.WithModel(cfg.Ollama.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}
	return &ollamaGenerator{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}, nil
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return stripThinkTags(out), nil
}

// stripThinkTags removes the <think>...</think> reasoning block that some
// local models emit before their answer.
func stripThinkTags(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

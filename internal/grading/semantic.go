package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/generation"
)

// SemanticGrader asks the generative backend to judge semantic equivalence
// between the user's answer and the correct answer. Malformed responses are
// retried with the same bounded-attempt discipline as quiz generation.
type SemanticGrader struct {
	generator      domain.TextGenerator
	maxAttempts    int
	attemptTimeout time.Duration
}

func NewSemanticGrader(generator domain.TextGenerator, maxAttempts int, attemptTimeout time.Duration) *SemanticGrader {
	if maxAttempts <= 0 {
		maxAttempts = generation.DefaultMaxAttempts
	}
	return &SemanticGrader{
		generator:      generator,
		maxAttempts:    maxAttempts,
		attemptTimeout: attemptTimeout,
	}
}

// BuildGradingPrompt renders the grading request. Deterministic, like the
// quiz prompt: retries reuse it verbatim.
func BuildGradingPrompt(attempt domain.AnswerAttempt) string {
	var b strings.Builder

	b.WriteString("You are evaluating a user's answer to a quiz question. Decide whether the user's answer is correct.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", attempt.Question)
	fmt.Fprintf(&b, "Correct answer: %s\n", attempt.CorrectAnswer)
	fmt.Fprintf(&b, "User's answer: %s\n\n", attempt.UserAnswer)

	b.WriteString(`Consider the answer correct if it is semantically equivalent to the correct answer or contains its key concepts, even when the wording differs. Consider the answer incorrect if it is a non-answer such as "I don't know" or "not sure", regardless of any overlap with the correct answer.

Respond with a JSON object in the following format:
{
  "result": "Correct" or "Incorrect",
  "explanation": "A brief explanation of why the answer is correct or incorrect"
}

RETURN ONLY THE JSON OBJECT, NO ADDITIONAL TEXT.
`)
	return b.String()
}

type verdictPayload struct {
	Result      string `json:"result"`
	Explanation string `json:"explanation"`
}

func parseVerdict(raw string) (verdictPayload, error) {
	body, err := generation.ExtractJSON(raw)
	if err != nil {
		return verdictPayload{}, err
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return verdictPayload{}, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}

	switch {
	case strings.EqualFold(payload.Result, "Correct"), strings.EqualFold(payload.Result, "Incorrect"):
		return payload, nil
	default:
		return verdictPayload{}, fmt.Errorf("unexpected result value: %q", payload.Result)
	}
}

func (g *SemanticGrader) Grade(ctx context.Context, attempt domain.AnswerAttempt) (*domain.ValidationOutcome, error) {
	prompt := BuildGradingPrompt(attempt)

	produce := func(ctx context.Context) (string, error) {
		if g.attemptTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.attemptTimeout)
			defer cancel()
		}
		return g.generator.Generate(ctx, prompt)
	}

	verdict, err := generation.Attempt(ctx, g.maxAttempts, produce, parseVerdict)
	if err != nil {
		return nil, err
	}
	return &domain.ValidationOutcome{
		Correct:     strings.EqualFold(verdict.Result, "Correct"),
		Explanation: verdict.Explanation,
	}, nil
}

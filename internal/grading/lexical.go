// Package grading decides whether a user's free-text answer matches the
// stored correct answer. Two interchangeable strategies exist: a local
// lexical-similarity score and a semantic-equivalence call to the generative
// backend. The strategy is selected by configuration.
package grading

import (
	"context"
	"fmt"
	"strings"

	"docquiz/internal/config"
	"docquiz/internal/domain"

	"github.com/agnivade/levenshtein"
)

// DefaultLexicalThreshold is the similarity score an answer must exceed to
// count as correct.
const DefaultLexicalThreshold = 0.5

// nonAnswers are refusals, not wrong answers. The lexical score would mark
// them incorrect anyway for most answers, but a short correct answer can sit
// lexically close to "idk", so rejection is available as an explicit policy.
var nonAnswers = []string{
	"i don't know",
	"i dont know",
	"idk",
	"not sure",
	"i'm not sure",
	"im not sure",
	"no idea",
}

// LexicalGrader scores the edit distance between the lowercased answers.
// It performs no network calls.
type LexicalGrader struct {
	threshold        float64
	rejectNonAnswers bool
}

func NewLexicalGrader(cfg config.GradingConfig) *LexicalGrader {
	threshold := cfg.LexicalThreshold
	if threshold <= 0 {
		threshold = DefaultLexicalThreshold
	}
	return &LexicalGrader{
		threshold:        threshold,
		rejectNonAnswers: cfg.RejectNonAnswers,
	}
}

func (g *LexicalGrader) Grade(ctx context.Context, attempt domain.AnswerAttempt) (*domain.ValidationOutcome, error) {
	user := strings.ToLower(strings.TrimSpace(attempt.UserAnswer))
	correct := strings.ToLower(strings.TrimSpace(attempt.CorrectAnswer))

	if g.rejectNonAnswers && isNonAnswer(user) {
		return &domain.ValidationOutcome{
			Correct:     false,
			Explanation: fmt.Sprintf("That is not an answer. The correct answer was: %s", attempt.CorrectAnswer),
		}, nil
	}

	if Similarity(correct, user) > g.threshold {
		return &domain.ValidationOutcome{
			Correct:     true,
			Explanation: "Your answer matches the correct answer.",
		}, nil
	}
	return &domain.ValidationOutcome{
		Correct:     false,
		Explanation: fmt.Sprintf("The correct answer was: %s", attempt.CorrectAnswer),
	}, nil
}

func isNonAnswer(s string) bool {
	for _, n := range nonAnswers {
		if s == n {
			return true
		}
	}
	return false
}

// Similarity is a normalized edit-distance score in [0,1]: 1 for identical
// strings, 0 for strings with nothing in common. Two empty strings score 1.
func Similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(d)/float64(maxLen)
}

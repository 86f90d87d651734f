// Package generation turns a normalized corpus into a schema-guaranteed quiz
// by wrapping an unreliable generative backend in a bounded
// generate-validate-retry loop.
package generation

import (
	"context"
	"strings"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/logger"
	"docquiz/internal/util"

	"go.uber.org/zap"
)

// Orchestrator is the pipeline centerpiece: it renders the prompt once, drives
// the generator through Attempt, and shapes the first schema-valid response
// into a QuizResult.
type Orchestrator struct {
	generator      domain.TextGenerator
	maxAttempts    int
	attemptTimeout time.Duration
}

func NewOrchestrator(generator domain.TextGenerator, maxAttempts int, attemptTimeout time.Duration) *Orchestrator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Orchestrator{
		generator:      generator,
		maxAttempts:    maxAttempts,
		attemptTimeout: attemptTimeout,
	}
}

// GenerateQuiz produces a validated quiz for the corpus. The backend may
// return more questions than requested; the surplus is truncated. A
// schema-invalid response is never surfaced to the caller, only retried.
func (o *Orchestrator) GenerateQuiz(ctx context.Context, corpus domain.Corpus, spec domain.QuizSpec) (*domain.QuizResult, error) {
	prompt := BuildQuizPrompt(corpus, spec)

	produce := func(ctx context.Context) (string, error) {
		if o.attemptTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, o.attemptTimeout)
			defer cancel()
		}
		return o.generator.Generate(ctx, prompt)
	}
	parse := func(raw string) (quizPayload, error) {
		return parseQuizResponse(raw, spec)
	}

	payload, err := Attempt(ctx, o.maxAttempts, produce, parse)
	if err != nil {
		return nil, err
	}

	questions := payload.Questions
	if len(questions) > spec.NumQuestions {
		questions = questions[:spec.NumQuestions]
	}

	result := &domain.QuizResult{
		ID:        util.NewULID(),
		Preview:   payload.Preview,
		Questions: make([]domain.GeneratedQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		result.Questions = append(result.Questions, domain.GeneratedQuestion{
			Question: q.Question,
			// Tag validation is case-insensitive; the stored tag is canonical.
			Difficulty:    strings.ToLower(strings.TrimSpace(q.Difficulty)),
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	logger.Get().Info("Quiz generated",
		zap.String("quiz_id", result.ID),
		zap.Int("requested", spec.NumQuestions),
		zap.Int("returned", len(result.Questions)),
		zap.String("difficulty", string(spec.Difficulty)),
	)
	return result, nil
}

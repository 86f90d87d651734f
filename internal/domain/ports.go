package domain

import (
	"context"
	"time"
)

// TextGenerator is the thin contract over the external generative backend.
// It takes an opaque prompt and returns raw text; no retry, no parsing,
// no schema knowledge. Sampling configuration is fixed at construction.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recognizer performs OCR over raw document bytes. Instances are single-use:
// acquired from a RecognizerFactory for one extraction call and released via
// Close on every exit path.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte, mediaType string) (string, error)
	Close() error
}

// RecognizerFactory acquires a fresh Recognizer for one extraction call.
type RecognizerFactory func(ctx context.Context) (Recognizer, error)

// AnswerGrader decides whether a user's free-text answer matches the stored
// correct answer. Implementations are interchangeable and selected by
// configuration.
type AnswerGrader interface {
	Grade(ctx context.Context, attempt AnswerAttempt) (*ValidationOutcome, error)
}

// Cache is the minimal key-value contract used for grading-outcome caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Ping(ctx context.Context) error
}

// QuizService defines the core business operations exposed to the HTTP layer.
type QuizService interface {
	// GenerateQuiz runs the full document-to-quiz pipeline for one request.
	GenerateQuiz(ctx context.Context, docs []SourceDocument, spec QuizSpec) (*QuizResult, error)

	// GradeAnswer evaluates a user's free-text answer.
	GradeAnswer(ctx context.Context, attempt AnswerAttempt) (*ValidationOutcome, error)
}

package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the caller-requested difficulty for generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyMixed lets the backend assign any of easy/medium/hard per question.
	DifficultyMixed Difficulty = "mixed"
)

// ParseDifficulty validates a difficulty token from the request.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	case DifficultyMixed:
		return DifficultyMixed, nil
	default:
		return "", NewMissingParametersError(fmt.Sprintf("invalid difficulty: %q", s))
	}
}

// Allows reports whether a per-question difficulty tag satisfies the requested one.
// A "mixed" request accepts any concrete member of the set.
func (d Difficulty) Allows(tag string) bool {
	t := Difficulty(strings.ToLower(strings.TrimSpace(tag)))
	if d == DifficultyMixed {
		return t == DifficultyEasy || t == DifficultyMedium || t == DifficultyHard
	}
	return t == d
}

// ExtractionMethod records how text was pulled out of a document.
type ExtractionMethod string

const (
	MethodDirect ExtractionMethod = "direct"
	MethodOCR    ExtractionMethod = "ocr"
)

// SourceDocument is one uploaded file. It lives for the duration of a single
// request and is discarded after extraction.
type SourceDocument struct {
	Name      string
	MediaType string
	Data      []byte
	Index     int
}

// ExtractedSegment is the text pulled from one document.
type ExtractedSegment struct {
	Text      string
	MediaType string
	Method    ExtractionMethod
	Index     int
}

// Corpus is the combined, normalized text of all documents in one request.
// It is built once and immutable thereafter.
type Corpus struct {
	Segments []ExtractedSegment
	Text     string
}

// Empty reports the explicit empty-corpus marker: no extractable text at all.
func (c Corpus) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// QuizSpec holds the caller-supplied generation parameters.
type QuizSpec struct {
	NumQuestions int
	Difficulty   Difficulty
}

// MaxQuestions caps a single generation request.
const MaxQuestions = 50

// Validate checks the spec before any extraction or generation work is done.
func (s QuizSpec) Validate() error {
	if s.NumQuestions <= 0 {
		return NewMissingParametersError("numQuestions must be a positive integer")
	}
	if s.NumQuestions > MaxQuestions {
		return NewMissingParametersError(fmt.Sprintf("numQuestions must not exceed %d", MaxQuestions))
	}
	if _, err := ParseDifficulty(string(s.Difficulty)); err != nil {
		return err
	}
	return nil
}

// GeneratedQuestion is one quiz item from a validated generation response.
type GeneratedQuestion struct {
	Question      string
	Difficulty    string
	CorrectAnswer string
}

// QuizResult is the final pipeline output for one request.
type QuizResult struct {
	ID        string
	Preview   string
	Questions []GeneratedQuestion
}

// AnswerAttempt is one grading request.
type AnswerAttempt struct {
	Question      string
	CorrectAnswer string
	UserAnswer    string
}

// Validate checks that all grading inputs are present.
func (a AnswerAttempt) Validate() error {
	if strings.TrimSpace(a.Question) == "" {
		return NewValidationInputMissingError("question")
	}
	if strings.TrimSpace(a.CorrectAnswer) == "" {
		return NewValidationInputMissingError("correctAnswer")
	}
	if strings.TrimSpace(a.UserAnswer) == "" {
		return NewValidationInputMissingError("userAnswer")
	}
	return nil
}

// ValidationOutcome is the grading verdict returned to the caller.
type ValidationOutcome struct {
	Correct     bool
	Explanation string
}

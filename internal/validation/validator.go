// Package validation checks request parameters before any pipeline work runs.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"docquiz/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizParams parses and validates the upload query parameters into a
// QuizSpec. Both parameters are required; there are no defaults.
func (v *Validator) ValidateQuizParams(numQuestions, difficulty string) (domain.QuizSpec, error) {
	if strings.TrimSpace(numQuestions) == "" {
		return domain.QuizSpec{}, domain.NewMissingParametersError("numQuestions is required")
	}
	n, err := strconv.Atoi(strings.TrimSpace(numQuestions))
	if err != nil {
		return domain.QuizSpec{}, domain.NewMissingParametersError(fmt.Sprintf("numQuestions must be an integer, got %q", numQuestions))
	}

	if strings.TrimSpace(difficulty) == "" {
		return domain.QuizSpec{}, domain.NewMissingParametersError("difficulty is required")
	}
	d, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return domain.QuizSpec{}, err
	}

	spec := domain.QuizSpec{NumQuestions: n, Difficulty: d}
	if err := spec.Validate(); err != nil {
		return domain.QuizSpec{}, err
	}
	return spec, nil
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal            ErrorCode = "INTERNAL_ERROR"
	ErrUnsupportedFormat   ErrorCode = "UNSUPPORTED_FORMAT"
	ErrExtractionFailed    ErrorCode = "EXTRACTION_FAILED"
	ErrMissingParameters   ErrorCode = "MISSING_PARAMETERS"
	ErrGenerationDown      ErrorCode = "GENERATION_UNAVAILABLE"
	ErrGenerationExhausted ErrorCode = "GENERATION_EXHAUSTED"
	ErrValidationInput     ErrorCode = "VALIDATION_INPUT_MISSING"
)

// FaultClass classifies an error as the caller's fault or ours. The HTTP layer
// reads this tag to pick a status family; the core never encodes status codes.
type FaultClass string

const (
	FaultClient FaultClass = "client"
	FaultServer FaultClass = "server"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Class   FaultClass
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, class FaultClass, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Class:   class,
		Err:     err,
	}
}

// Helper constructors for the error taxonomy

func NewUnsupportedFormatError(mediaType string) *DomainError {
	return NewError(ErrUnsupportedFormat, FaultClient, fmt.Sprintf("unsupported file type: %s", mediaType), nil)
}

func NewExtractionFailedError(name string, err error) *DomainError {
	return NewError(ErrExtractionFailed, FaultClient, fmt.Sprintf("failed to extract text from %s", name), err)
}

func NewMissingParametersError(message string) *DomainError {
	return NewError(ErrMissingParameters, FaultClient, message, nil)
}

func NewValidationInputMissingError(field string) *DomainError {
	return NewError(ErrValidationInput, FaultClient, fmt.Sprintf("%s is required", field), nil)
}

func NewGenerationUnavailableError(err error) *DomainError {
	return NewError(ErrGenerationDown, FaultServer, "generation backend is unavailable", err)
}

func NewGenerationExhaustedError(attempts int, err error) *DomainError {
	return NewError(ErrGenerationExhausted, FaultServer,
		fmt.Sprintf("generation produced no valid response after %d attempts", attempts), err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, FaultServer, message, err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

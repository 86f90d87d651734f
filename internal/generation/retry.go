package generation

import (
	"context"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the generate-validate loop.
const DefaultMaxAttempts = 5

// Attempt drives an unreliable text producer until parse accepts its output
// or the attempt budget runs out. Attempts are independent and identical: the
// producer is called with the same input every time, trusting backend
// non-determinism to eventually yield a conforming response.
//
// A producer error is terminal (GenerationUnavailable) and is not retried;
// only validation failures are. Exhausting the budget yields
// GenerationExhausted carrying the last validation error.
func Attempt[T any](ctx context.Context, maxAttempts int, produce func(context.Context) (string, error), parse func(string) (T, error)) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, domain.NewGenerationUnavailableError(err)
		}

		raw, err := produce(ctx)
		if err != nil {
			return zero, domain.NewGenerationUnavailableError(err)
		}

		out, err := parse(raw)
		if err == nil {
			return out, nil
		}
		lastErr = err
		logger.Get().Warn("Response failed validation, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err),
		)
	}
	return zero, domain.NewGenerationExhaustedError(maxAttempts, lastErr)
}

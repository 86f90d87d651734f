package grading

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// DefaultOutcomeTTL is how long a grading verdict stays cached. Verdicts are
// pure functions of the answer triple, so the TTL only bounds memory, not
// staleness.
const DefaultOutcomeTTL = 24 * time.Hour

// CachedGrader memoizes grading outcomes in a cache, keyed by a digest of the
// answer triple. Cache failures degrade to the inner grader and are logged,
// never surfaced.
type CachedGrader struct {
	inner domain.AnswerGrader
	store domain.Cache
	ttl   time.Duration
}

func NewCachedGrader(inner domain.AnswerGrader, store domain.Cache, ttl time.Duration) *CachedGrader {
	if ttl <= 0 {
		ttl = DefaultOutcomeTTL
	}
	return &CachedGrader{inner: inner, store: store, ttl: ttl}
}

func outcomeKey(attempt domain.AnswerAttempt) string {
	h := sha256.Sum256([]byte(strings.Join([]string{
		strings.ToLower(strings.TrimSpace(attempt.Question)),
		strings.ToLower(strings.TrimSpace(attempt.CorrectAnswer)),
		strings.ToLower(strings.TrimSpace(attempt.UserAnswer)),
	}, "\x00")))
	return cache.GenerateCacheKey("grading", "outcome", hex.EncodeToString(h[:]))
}

func (g *CachedGrader) Grade(ctx context.Context, attempt domain.AnswerAttempt) (*domain.ValidationOutcome, error) {
	key := outcomeKey(attempt)

	if cached, err := g.store.Get(ctx, key); err == nil {
		var outcome domain.ValidationOutcome
		if err := json.Unmarshal([]byte(cached), &outcome); err == nil {
			logger.Get().Debug("Grading cache hit", zap.String("key", key))
			return &outcome, nil
		}
		logger.Get().Warn("Discarding undecodable cached outcome", zap.String("key", key))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Grading cache read failed", zap.String("key", key), zap.Error(err))
	}

	outcome, err := g.inner.Grade(ctx, attempt)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(outcome); err == nil {
		if err := g.store.Set(ctx, key, string(encoded), g.ttl); err != nil {
			logger.Get().Warn("Grading cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return outcome, nil
}

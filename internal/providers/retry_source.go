package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingSource wraps a FixtureSource with retry/backoff behavior.
// ErrNoData and context errors are final and never retried.
type retryingSource struct {
	inner       FixtureSource
	logger      *slog.Logger
	metrics     *metrics.Recorder
	sourceName  string
	maxAttempts int
	backoffFn   backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingSource wraps the given source with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingSource(inner FixtureSource, logger *slog.Logger, rec *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) FixtureSource {
	return NewRetryingSourceWithRNG(inner, logger, rec, name, nil, maxAttempts, backoff)
}

// NewRetryingSourceWithRNG is NewRetryingSource with an explicit jitter source.
func NewRetryingSourceWithRNG(inner FixtureSource, logger *slog.Logger, rec *metrics.Recorder, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) FixtureSource {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = "source"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingSource{
		inner:       inner,
		logger:      logger,
		metrics:     rec,
		sourceName:  name,
		maxAttempts: maxAttempts,
		rng:         rng,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingSource) FetchFixturesForDate(ctx context.Context, date string) ([]fixtures.Fixture, error) {
	return withRetry(ctx, r, "fixtures", date, func(ctx context.Context) ([]fixtures.Fixture, error) {
		return r.inner.FetchFixturesForDate(ctx, date)
	})
}

func (r *retryingSource) FetchResultsForMonth(ctx context.Context, month string) ([]fixtures.MatchGroup, error) {
	return withRetry(ctx, r, "results", month, func(ctx context.Context) ([]fixtures.MatchGroup, error) {
		return r.inner.FetchResultsForMonth(ctx, month)
	})
}

func withRetry[T any](ctx context.Context, r *retryingSource, op, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if r.inner == nil {
		return zero, ErrSourceUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		out, err := fetch(ctx)
		r.metrics.RecordSourceAttempt(r.sourceName, time.Since(start), errIgnoringNoData(err))
		if err == nil || IsNoData(err) {
			return out, err
		}
		lastErr = err

		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.sourceName, rl.RetryAfter)
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return zero, err
		}
		if attempt == r.maxAttempts {
			break
		}

		logWithSource(ctx, r.logger, slog.LevelWarn, r.sourceName, "source fetch retry",
			"op", op, "key", key, "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		delay := r.computeDelay(err, attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	logWithSource(ctx, r.logger, slog.LevelWarn, r.sourceName, "source fetch failed",
		"op", op, "key", key, "attempts", r.maxAttempts, "err", lastErr)
	return zero, lastErr
}

// computeDelay honours a Retry-After hint, otherwise applies jitter in [base/2, base].
func (r *retryingSource) computeDelay(err error, attempt int) time.Duration {
	if rl, ok := AsRateLimitError(err); ok && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}

func errIgnoringNoData(err error) error {
	if IsNoData(err) {
		return nil
	}
	return err
}

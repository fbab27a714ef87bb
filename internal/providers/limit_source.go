package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

// rateLimitedSource wraps a FixtureSource with a token bucket shared by both operations.
type rateLimitedSource struct {
	next    FixtureSource
	limiter *rate.Limiter
	logger  *slog.Logger
	name    string
}

// NewRateLimitedSource returns a FixtureSource that allows one call per interval with the given burst.
// Calls block until a token is available or ctx is done.
func NewRateLimitedSource(next FixtureSource, interval time.Duration, burst int, logger *slog.Logger) FixtureSource {
	if interval <= 0 {
		interval = 6 * time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedSource{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
		logger:  logger,
		name:    "rate-limited",
	}
}

func (p *rateLimitedSource) FetchFixturesForDate(ctx context.Context, date string) ([]fixtures.Fixture, error) {
	if err := p.wait(ctx, date); err != nil {
		return nil, err
	}
	return p.next.FetchFixturesForDate(ctx, date)
}

func (p *rateLimitedSource) FetchResultsForMonth(ctx context.Context, month string) ([]fixtures.MatchGroup, error) {
	if err := p.wait(ctx, month); err != nil {
		return nil, err
	}
	return p.next.FetchResultsForMonth(ctx, month)
}

func (p *rateLimitedSource) wait(ctx context.Context, key string) error {
	if p == nil || p.next == nil {
		return ErrSourceUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithSource(ctx, p.logger, slog.LevelWarn, p.name, "rate-limited fetch canceled", "key", key, "err", err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	logWithSource(ctx, p.logger, slog.LevelDebug, p.name, "rate-limited source fetch", "key", key)
	return nil
}

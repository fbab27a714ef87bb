package server

import (
	"log/slog"

	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/providers"
)

// sourceFactory assembles the fixture source with shared wrappers (rate limit + retry).
type sourceFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newSourceFactory(logger *slog.Logger, metrics *metrics.Recorder) sourceFactory {
	return sourceFactory{logger: logger, metrics: metrics}
}

func (f sourceFactory) build(cfg config.Config) providers.FixtureSource {
	base := selectSource(cfg, f.logger)
	limited := providers.NewRateLimitedSource(base, cfg.Source.RateInterval, cfg.Source.RateBurst, f.logger)
	return f.withRetry(cfg, limited, normalizeSourceName(cfg.Source.Name, base))
}

func (f sourceFactory) withRetry(cfg config.Config, source providers.FixtureSource, name string) providers.FixtureSource {
	return providers.NewRetryingSource(source, f.logger, f.metrics, name, cfg.Source.MaxAttempts, cfg.Source.Backoff)
}

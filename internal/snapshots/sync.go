package snapshots

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// Syncer warms the fixture caches, and through their persisters the snapshots,
// at start-up and once a day.
type Syncer struct {
	source    providers.FixtureSource
	dates     *fixturecache.Cache
	results   *fixturecache.Cache
	cfg       SyncConfig
	logger    *slog.Logger
	now       func() time.Time
	newTicker func(time.Duration) *time.Ticker
}

// SyncConfig controls snapshot sync behavior.
type SyncConfig struct {
	Enabled bool

	// PastMonths is how many months before the current one to backfill results for.
	PastMonths   int
	Interval     time.Duration
	DailyHourUTC int
}

// NewSyncer constructs a snapshot syncer.
func NewSyncer(source providers.FixtureSource, dates, results *fixturecache.Cache, cfg SyncConfig, logger *slog.Logger) *Syncer {
	if cfg.PastMonths < 0 {
		cfg.PastMonths = 0
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.DailyHourUTC < 0 || cfg.DailyHourUTC > 23 {
		cfg.DailyHourUTC = 2
	}

	return &Syncer{
		source:    source,
		dates:     dates,
		results:   results,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		newTicker: time.NewTicker,
	}
}

// Run performs a one-time warm-up, spaced by Interval, then schedules the daily refresh.
// Callers should run this in a goroutine.
func (s *Syncer) Run(ctx context.Context) {
	if s == nil || !s.cfg.Enabled || s.source == nil {
		return
	}
	s.logInfo(
		"snapshot sync starting",
		"past_months", s.cfg.PastMonths,
		"interval", s.cfg.Interval.String(),
		"daily_hour_utc", s.cfg.DailyHourUTC,
	)
	s.backfill(ctx, s.now().UTC())
	go s.daily(ctx)
}

type warmTarget struct {
	cache *fixturecache.Cache
	key   string
	fetch fixturecache.FetchFunc
}

func (s *Syncer) backfill(ctx context.Context, now time.Time) {
	targets := s.buildTargets(now)
	for i, target := range targets {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.warm(ctx, target)
		if i < len(targets)-1 {
			s.sleep(ctx, s.cfg.Interval)
		}
	}
}

func (s *Syncer) daily(ctx context.Context) {
	ticker := s.newTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.UTC().Hour() == s.cfg.DailyHourUTC {
				s.backfill(ctx, s.now().UTC())
			}
		}
	}
}

// buildTargets lists the upcoming match dates and every month in the backfill window
// that the caches do not already hold.
func (s *Syncer) buildTargets(now time.Time) []warmTarget {
	var targets []warmTarget

	if s.dates != nil {
		saturday, sunday := timeutil.UpcomingMatchDates(now)
		for _, date := range []string{saturday, sunday} {
			if _, ok := s.dates.Get(date); ok {
				continue
			}
			targets = append(targets, warmTarget{cache: s.dates, key: date, fetch: fixturecache.DateFetcher(s.source, date)})
		}
	}

	if s.results != nil {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i <= s.cfg.PastMonths; i++ {
			month := first.AddDate(0, -i, 0).Format(timeutil.MonthLayout)
			if _, ok := s.results.Get(month); ok {
				continue
			}
			targets = append(targets, warmTarget{cache: s.results, key: month, fetch: fixturecache.MonthFetcher(s.source, month)})
		}
	}
	return targets
}

func (s *Syncer) warm(ctx context.Context, target warmTarget) {
	start := time.Now()
	entry, err := target.cache.GetOrFetch(ctx, target.key, target.fetch)
	if err != nil {
		s.logWarn("snapshot sync fetch failed", "cache", target.cache.Name(), "key", target.key, "err", err)
		return
	}
	s.logInfo("snapshot sync warmed",
		"cache", target.cache.Name(),
		"key", target.key,
		"status", string(entry.Status),
		"count", len(entry.Fixtures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (s *Syncer) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (s *Syncer) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Syncer) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

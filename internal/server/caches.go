package server

import (
	"log/slog"

	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/snapshots"
)

type cacheComponents struct {
	dates   *fixturecache.Cache
	results *fixturecache.Cache
	syncer  *snapshots.Syncer
}

// buildCaches creates the dates and results caches. With snapshots enabled every stored
// entry is persisted and the previous run's entries are restored before serving.
func buildCaches(cfg config.Config, source providers.FixtureSource, logger *slog.Logger, recorder *metrics.Recorder) cacheComponents {
	dateOpts := []fixturecache.Option{
		fixturecache.WithName("dates"),
		fixturecache.WithTimeout(cfg.Source.FetchTimeout),
		fixturecache.WithMetrics(recorder),
		fixturecache.WithLogger(logger),
	}
	resultOpts := []fixturecache.Option{
		fixturecache.WithName("results"),
		fixturecache.WithTimeout(cfg.Source.FetchTimeout),
		fixturecache.WithCacheable(fixturecache.CacheFinal),
		fixturecache.WithMetrics(recorder),
		fixturecache.WithLogger(logger),
	}
	if cfg.Snapshots.Enabled {
		dateOpts = append(dateOpts, fixturecache.WithPersister(
			snapshots.NewWriter(cfg.Snapshots.Folder, snapshots.KindDates, cfg.Snapshots.RetentionDays)))
		resultOpts = append(resultOpts, fixturecache.WithPersister(
			snapshots.NewWriter(cfg.Snapshots.Folder, snapshots.KindMonths, cfg.Snapshots.RetentionDays)))
	}

	components := cacheComponents{
		dates:   fixturecache.New(dateOpts...),
		results: fixturecache.New(resultOpts...),
	}
	if cfg.Snapshots.Enabled {
		fs := snapshots.NewFSStore(cfg.Snapshots.Folder)
		restore(fs, snapshots.KindDates, components.dates, logger)
		restore(fs, snapshots.KindMonths, components.results, logger)
	}
	if cfg.Snapshots.SyncEnabled {
		components.syncer = snapshots.NewSyncer(source, components.dates, components.results, snapshots.SyncConfig{
			Enabled:      true,
			PastMonths:   cfg.Snapshots.PastMonths,
			Interval:     cfg.Snapshots.Interval,
			DailyHourUTC: cfg.Snapshots.DailyHourUTC,
		}, logger)
	}
	return components
}

func restore(fs *snapshots.FSStore, kind snapshots.Kind, cache *fixturecache.Cache, logger *slog.Logger) {
	entries, err := fs.LoadEntries(kind)
	if err != nil {
		logging.Warn(logger, "snapshot restore incomplete", slog.String("kind", string(kind)), slog.Any("err", err))
	}
	if n := cache.Restore(entries); n > 0 {
		logging.Info(logger, "snapshots restored", slog.String("kind", string(kind)), slog.Int(logging.FieldCount, n))
	}
}

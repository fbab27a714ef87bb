package bets

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// UpcomingFixtures returns the fixtures of the current match weekend, Saturday first.
func (s *Service) UpcomingFixtures(ctx context.Context) (fixtures.UpcomingResponse, error) {
	saturday, sunday := timeutil.UpcomingMatchDates(s.now())
	dates := []string{saturday, sunday}
	entries := make([]fixturecache.Entry, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		g.Go(func() error {
			e, err := s.dates.GetOrFetch(gctx, date, fixturecache.DateFetcher(s.source, date))
			entries[i] = e
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fixtures.UpcomingResponse{}, newError(KindSourceUnavailable, err, "fixtures for %s and %s unavailable", saturday, sunday)
	}

	resp := fixtures.UpcomingResponse{Saturday: saturday, Sunday: sunday, Fixtures: []fixtures.Fixture{}}
	for _, e := range entries {
		resp.Fixtures = append(resp.Fixtures, e.Fixtures...)
	}
	return resp, nil
}

// ResetCache drops every cached fixture entry and its persisted snapshot.
func (s *Service) ResetCache(ctx context.Context) error {
	err := errors.Join(s.dates.Reset(), s.results.Reset())
	if err != nil {
		return newError(KindStoreFailure, err, "reset fixture caches")
	}
	s.logInfo(ctx, "fixture caches reset")
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	logging.Info(logging.FromContext(ctx, s.logger), msg, args...)
}

// Logger exposes the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

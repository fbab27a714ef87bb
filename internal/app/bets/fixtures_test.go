package bets

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/teststubs"
)

func TestUpcomingFixturesReadsBothMatchDates(t *testing.T) {
	source := &teststubs.StubSource{
		ByDate: map[string][]fixtures.Fixture{
			"2024-01-13": {teststubs.ScheduledFixture("Arsenal", "Chelsea", "2024-01-13")},
			"2024-01-14": {teststubs.ScheduledFixture("Everton", "Fulham", "2024-01-14")},
		},
	}
	f := newFixture(t, source)

	resp, err := f.svc.UpcomingFixtures(context.Background())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if resp.Saturday != "2024-01-13" || resp.Sunday != "2024-01-14" || len(resp.Fixtures) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Fixtures[0].Date != "2024-01-13" {
		t.Fatalf("expected Saturday first, got %+v", resp.Fixtures)
	}

	if _, err := f.svc.UpcomingFixtures(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if source.CallsFor("2024-01-13") != 1 || source.CallsFor("2024-01-14") != 1 {
		t.Fatalf("expected cached dates to be fetched once")
	}
}

func TestUpcomingFixturesEmptyWeekend(t *testing.T) {
	f := newFixture(t, &teststubs.StubSource{Err: providers.ErrNoData})
	resp, err := f.svc.UpcomingFixtures(context.Background())
	if err != nil {
		t.Fatalf("expected no-data to be an empty result, got %v", err)
	}
	if resp.Fixtures == nil || len(resp.Fixtures) != 0 {
		t.Fatalf("expected empty fixture list, got %+v", resp.Fixtures)
	}
}

func TestUpcomingFixturesSourceUnavailable(t *testing.T) {
	f := newFixture(t, &teststubs.StubSource{Err: errors.New("connection refused")})
	_, err := f.svc.UpcomingFixtures(context.Background())
	requireKind(t, err, KindSourceUnavailable)
}

type failingResetter struct{}

func (failingResetter) WriteEntry(fixturecache.Entry) error { return nil }
func (failingResetter) Reset() error { return errors.New("read-only filesystem") }

func TestResetCacheDropsEntries(t *testing.T) {
	f := newFixture(t, januarySource())
	mustUser(t, f.svc, "u1")
	mustSubmit(t, f.svc, "u1", arsenalChelsea, 2, 1, "2024-01-06")
	if _, err := f.svc.SettleUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if f.svc.results.Len() != 1 {
		t.Fatalf("expected final month to be cached")
	}

	if err := f.svc.ResetCache(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if f.svc.results.Len() != 0 || f.svc.dates.Len() != 0 {
		t.Fatalf("expected caches to be empty after reset")
	}

	f.svc.dates = fixturecache.New(fixturecache.WithPersister(failingResetter{}))
	err := f.svc.ResetCache(context.Background())
	requireKind(t, err, KindStoreFailure)
}

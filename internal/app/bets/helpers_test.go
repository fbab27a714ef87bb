package bets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainbets "github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/notify"
	"github.com/preston-bernstein/matchday-service/internal/store"
	"github.com/preston-bernstein/matchday-service/internal/teststubs"
)

var (
	arsenalChelsea = fixtures.NewTeamPair("Arsenal", "Chelsea")
	evertonFulham  = fixtures.NewTeamPair("Everton", "Fulham")
)

type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Summary
	err error
}

func (n *recordingNotifier) Notify(_ context.Context, s notify.Summary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, s)
	return n.err
}

func (n *recordingNotifier) summaries() []notify.Summary {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Summary(nil), n.got...)
}

// flakyStore fails Save with ErrConflict for the first conflicts calls and Get for failIDs.
type flakyStore struct {
	*store.MemoryStore
	conflicts atomic.Int32
	failIDs   map[string]bool
}

func (s *flakyStore) Get(ctx context.Context, id string) (domainbets.User, error) {
	if s.failIDs[id] {
		return domainbets.User{}, errors.New("disk on fire")
	}
	return s.MemoryStore.Get(ctx, id)
}

func (s *flakyStore) Save(ctx context.Context, u domainbets.User) (domainbets.User, error) {
	if s.conflicts.Load() > 0 {
		s.conflicts.Add(-1)
		return domainbets.User{}, store.ErrConflict
	}
	return s.MemoryStore.Save(ctx, u)
}

type fixture struct {
	svc      *Service
	store    *store.MemoryStore
	source   *teststubs.StubSource
	notifier *recordingNotifier
}

func newFixture(t *testing.T, source *teststubs.StubSource) fixture {
	t.Helper()
	if source == nil {
		source = &teststubs.StubSource{}
	}
	st := store.NewMemoryStore()
	n := &recordingNotifier{}
	svc := NewService(Config{
		Store:    st,
		Source:   source,
		Dates:    fixturecache.New(fixturecache.WithName("dates")),
		Results:  fixturecache.New(fixturecache.WithName("results"), fixturecache.WithCacheable(fixturecache.CacheFinal)),
		Notifier: n,
	})
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("p%d", seq)
	}
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, store: st, source: source, notifier: n}
}

func mustUser(t *testing.T, svc *Service, id string) domainbets.User {
	t.Helper()
	u, err := svc.LoadOrCreateUser(context.Background(), id, id+"@example.com")
	if err != nil {
		t.Fatalf("load or create %s: %v", id, err)
	}
	return u
}

func mustSubmit(t *testing.T, svc *Service, id string, teams fixtures.TeamPair, h, a int, date string) domainbets.Prediction {
	t.Helper()
	p, err := svc.SubmitPrediction(context.Background(), id, teams, fixtures.ScorePair{Home: h, Away: a}, date)
	if err != nil {
		t.Fatalf("submit %s for %s: %v", teams, id, err)
	}
	return p
}

func requireKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, got, err)
	}
}

func day(date string, list ...fixtures.Fixture) fixtures.MatchGroup {
	return fixtures.MatchGroup{Date: date, Fixtures: list}
}

func mustPrediction(teams fixtures.TeamPair, h, a int, date string) domainbets.Prediction {
	return domainbets.Prediction{
		ID:             teams.Key() + date,
		Teams:          teams,
		PredictedScore: fixtures.ScorePair{Home: h, Away: a},
		GameDate:       date,
	}
}

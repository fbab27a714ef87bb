package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

// StubSource is a test double for providers.FixtureSource.
// Responses are keyed by date (FetchFixturesForDate) or month (FetchResultsForMonth);
// keys without a configured response return Fixtures/Groups and Err.
type StubSource struct {
	Fixtures []fixtures.Fixture
	Groups   []fixtures.MatchGroup
	Err      error

	ByDate   map[string][]fixtures.Fixture
	ByMonth  map[string][]fixtures.MatchGroup
	ErrByKey map[string]error

	// Gate, when set, blocks every fetch until it is closed or ctx is done.
	Gate chan struct{}
	// Notify is closed on the first fetch.
	Notify chan struct{}

	Calls atomic.Int32

	mu        sync.Mutex
	keyCalls  map[string]int
	notifyOne sync.Once
}

// FetchFixturesForDate returns configured fixtures and error while tracking calls.
func (s *StubSource) FetchFixturesForDate(ctx context.Context, date string) ([]fixtures.Fixture, error) {
	if err := s.enter(ctx, date); err != nil {
		return nil, err
	}
	if err, ok := s.ErrByKey[date]; ok {
		return nil, err
	}
	if list, ok := s.ByDate[date]; ok {
		return list, nil
	}
	return s.Fixtures, s.Err
}

// FetchResultsForMonth returns configured match groups and error while tracking calls.
func (s *StubSource) FetchResultsForMonth(ctx context.Context, month string) ([]fixtures.MatchGroup, error) {
	if err := s.enter(ctx, month); err != nil {
		return nil, err
	}
	if err, ok := s.ErrByKey[month]; ok {
		return nil, err
	}
	if groups, ok := s.ByMonth[month]; ok {
		return groups, nil
	}
	return s.Groups, s.Err
}

// CallsFor returns how many fetches hit the given key.
func (s *StubSource) CallsFor(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyCalls[key]
}

func (s *StubSource) enter(ctx context.Context, key string) error {
	s.Calls.Add(1)
	s.mu.Lock()
	if s.keyCalls == nil {
		s.keyCalls = make(map[string]int)
	}
	s.keyCalls[key]++
	s.mu.Unlock()

	if s.Notify != nil {
		s.notifyOne.Do(func() { close(s.Notify) })
	}
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// FinishedFixture builds a finished fixture for tests.
func FinishedFixture(home, away string, homeGoals, awayGoals int, date string) fixtures.Fixture {
	return fixtures.Fixture{
		ID:     home + "-" + away + "-" + date,
		Teams:  fixtures.TeamPair{Home: home, Away: away},
		Score:  &fixtures.ScorePair{Home: homeGoals, Away: awayGoals},
		Date:   date,
		Status: fixtures.StatusFinished,
	}
}

// ScheduledFixture builds a not-yet-played fixture for tests.
func ScheduledFixture(home, away, date string) fixtures.Fixture {
	return fixtures.Fixture{
		ID:     home + "-" + away + "-" + date,
		Teams:  fixtures.TeamPair{Home: home, Away: away},
		Date:   date,
		Status: fixtures.StatusScheduled,
	}
}

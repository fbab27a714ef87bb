package fixturecache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/teststubs"
)

func TestScopedFetchesBatchInPlayOncePerScope(t *testing.T) {
	var calls atomic.Int32
	shared := New(WithCacheable(CacheFinal))
	inPlay := []fixtures.Fixture{teststubs.ScheduledFixture("Leeds", "Everton", "2024-01-27")}
	fetch := countingFetch(&calls, inPlay, nil)

	scope := NewScoped(shared)
	for i := 0; i < 3; i++ {
		if _, err := scope.GetOrFetch(context.Background(), "2024-01", fetch); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one fetch within the scope, got %d", calls.Load())
	}

	if _, err := NewScoped(shared).GetOrFetch(context.Background(), "2024-01", fetch); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a new scope to refetch, got %d", calls.Load())
	}
}

func TestScopedUsesSharedEntries(t *testing.T) {
	var calls atomic.Int32
	shared := New()
	shared.Restore([]Entry{{Key: "2024-01", Status: StatusEmpty}})

	e, err := NewScoped(shared).GetOrFetch(context.Background(), "2024-01", countingFetch(&calls, nil, nil))
	if err != nil || !e.Empty() {
		t.Fatalf("expected shared empty entry, got %+v err %v", e, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no source fetch, got %d", calls.Load())
	}
}

func TestScopedPropagatesUnavailable(t *testing.T) {
	var calls atomic.Int32
	scope := NewScoped(New())
	_, err := scope.GetOrFetch(context.Background(), "2024-01", countingFetch(&calls, nil, errors.New("down")))
	if !errors.Is(err, providers.ErrSourceUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

package fixturecache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/teststubs"
)

func finishedList(date string) []fixtures.Fixture {
	return []fixtures.Fixture{teststubs.FinishedFixture("Arsenal", "Chelsea", 2, 1, date)}
}

func countingFetch(calls *atomic.Int32, list []fixtures.Fixture, err error) FetchFunc {
	return func(ctx context.Context) ([]fixtures.Fixture, error) {
		calls.Add(1)
		return list, err
	}
}

func TestGetOrFetchSingleFlightsConcurrentCallers(t *testing.T) {
	stub := &teststubs.StubSource{
		Fixtures: finishedList("2024-01-06"),
		Gate:     make(chan struct{}),
		Notify:   make(chan struct{}),
	}
	rec := metrics.NewRecorder()
	c := New(WithName("results"), WithMetrics(rec))
	fetch := func(ctx context.Context) ([]fixtures.Fixture, error) {
		return stub.FetchFixturesForDate(ctx, "2024-01-06")
	}

	const callers = 50
	var wg sync.WaitGroup
	results := make([]Entry, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrFetch(context.Background(), "2024-01", fetch)
		}(i)
	}

	<-stub.Notify
	time.Sleep(20 * time.Millisecond)
	close(stub.Gate)
	wg.Wait()

	if got := stub.Calls.Load(); got != 1 {
		t.Fatalf("expected exactly one fetch, got %d", got)
	}
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].Status != StatusReady || len(results[i].Fixtures) != 1 {
			t.Fatalf("caller %d got %+v", i, results[i])
		}
	}
	snap := rec.CacheSnapshot("results")
	if snap.Hits+snap.Misses+snap.Shared != callers {
		t.Fatalf("unexpected lookup counts %+v", snap)
	}
}

func TestGetOrFetchKeysAreIndependent(t *testing.T) {
	var calls atomic.Int32
	c := New()
	fetch := countingFetch(&calls, finishedList("2024-01-06"), nil)

	for _, key := range []string{"2024-01", "2024-02", "2024-01"} {
		if _, err := c.GetOrFetch(context.Background(), key, fetch); err != nil {
			t.Fatalf("unexpected error for %s: %v", key, err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one fetch per key, got %d", calls.Load())
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestGetOrFetchCachesNoDataAsEmpty(t *testing.T) {
	var calls atomic.Int32
	c := New()
	fetch := countingFetch(&calls, nil, fmt.Errorf("date: %w", providers.ErrNoData))

	for i := 0; i < 3; i++ {
		e, err := c.GetOrFetch(context.Background(), "2024-01-03", fetch)
		if err != nil {
			t.Fatalf("expected empty entry, got error %v", err)
		}
		if !e.Empty() || len(e.Fixtures) != 0 {
			t.Fatalf("expected empty entry, got %+v", e)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected empty answer to be cached, got %d fetches", calls.Load())
	}
}

func TestGetOrFetchTreatsEmptyListAsEmpty(t *testing.T) {
	var calls atomic.Int32
	c := New()
	e, err := c.GetOrFetch(context.Background(), "2024-01-03", countingFetch(&calls, []fixtures.Fixture{}, nil))
	if err != nil || !e.Empty() {
		t.Fatalf("expected empty entry, got %+v err %v", e, err)
	}
}

func TestGetOrFetchDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	c := New()
	boom := errors.New("connection refused")
	fetch := countingFetch(&calls, nil, boom)

	for i := 0; i < 2; i++ {
		_, err := c.GetOrFetch(context.Background(), "2024-01", fetch)
		if !errors.Is(err, providers.ErrSourceUnavailable) || !errors.Is(err, boom) {
			t.Fatalf("expected wrapped unavailable error, got %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected failure not to be cached, got %d fetches", calls.Load())
	}
	if _, ok := c.Get("2024-01"); ok {
		t.Fatal("expected key to stay unknown")
	}
}

func TestGetOrFetchTimeoutLeavesKeyUnknown(t *testing.T) {
	c := New(WithTimeout(10 * time.Millisecond))
	fetch := func(ctx context.Context) ([]fixtures.Fixture, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := c.GetOrFetch(context.Background(), "2024-01", fetch)
	if !errors.Is(err, providers.ErrSourceUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout as unavailable, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("expected nothing cached after timeout")
	}
}

func TestGetOrFetchCallerCancelDoesNotAbortFetch(t *testing.T) {
	gate := make(chan struct{})
	c := New()
	fetch := func(ctx context.Context) ([]fixtures.Fixture, error) {
		<-gate
		return finishedList("2024-01-06"), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.GetOrFetch(ctx, "2024-01", fetch)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected caller to see cancellation, got %v", err)
	}

	close(gate)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := c.Get("2024-01"); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected fetch to complete and populate the cache")
}

func TestCacheFinalSkipsBatchesInPlay(t *testing.T) {
	var calls atomic.Int32
	c := New(WithCacheable(CacheFinal))
	inPlay := []fixtures.Fixture{
		teststubs.FinishedFixture("Arsenal", "Chelsea", 2, 1, "2024-01-06"),
		teststubs.ScheduledFixture("Leeds", "Everton", "2024-01-27"),
	}

	for i := 0; i < 2; i++ {
		e, err := c.GetOrFetch(context.Background(), "2024-01", countingFetch(&calls, inPlay, nil))
		if err != nil || len(e.Fixtures) != 2 {
			t.Fatalf("expected batch returned to caller, got %+v err %v", e, err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected batch in play to be refetched, got %d fetches", calls.Load())
	}

	if _, err := c.GetOrFetch(context.Background(), "2023-12", countingFetch(&calls, finishedList("2023-12-30"), nil)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, ok := c.Get("2023-12"); !ok {
		t.Fatal("expected final batch to be cached")
	}
}

type recordingPersister struct {
	mu      sync.Mutex
	written []Entry
	resets  int
	err     error
}

func (p *recordingPersister) WriteEntry(e Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, e)
	return p.err
}

func (p *recordingPersister) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets++
	return nil
}

func TestPersisterReceivesStoredEntriesAndReset(t *testing.T) {
	var calls atomic.Int32
	p := &recordingPersister{err: errors.New("disk full")}
	c := New(WithPersister(p))

	if _, err := c.GetOrFetch(context.Background(), "2024-01", countingFetch(&calls, finishedList("2024-01-06"), nil)); err != nil {
		t.Fatalf("persist failure must not fail the lookup, got %v", err)
	}
	if len(p.written) != 1 || p.written[0].Key != "2024-01" {
		t.Fatalf("expected entry persisted, got %+v", p.written)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("unexpected reset error %v", err)
	}
	if p.resets != 1 || c.Len() != 0 {
		t.Fatalf("expected reset to clear cache and persister, resets=%d len=%d", p.resets, c.Len())
	}
}

func TestResetDuringFetchDiscardsResult(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	c := New()
	fetch := func(ctx context.Context) ([]fixtures.Fixture, error) {
		close(started)
		<-gate
		return finishedList("2024-01-06"), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := c.GetOrFetch(context.Background(), "2024-01", fetch); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	}()
	<-started
	_ = c.Reset()
	close(gate)
	<-done

	if c.Len() != 0 {
		t.Fatal("expected in-flight result from before reset to be dropped")
	}
}

func TestRestoreAndEntries(t *testing.T) {
	c := New(WithCacheable(CacheFinal))
	n := c.Restore([]Entry{
		{Key: "2024-02", Status: StatusReady, Fixtures: finishedList("2024-02-03")},
		{Key: "2024-01", Status: StatusEmpty},
		{Key: "2024-03", Status: StatusReady, Fixtures: []fixtures.Fixture{teststubs.ScheduledFixture("A", "B", "2024-03-02")}},
		{Key: "", Status: StatusReady},
		{Key: "2024-04", Status: "bogus"},
	})
	if n != 2 {
		t.Fatalf("expected 2 restored entries, got %d", n)
	}
	entries := c.Entries()
	if len(entries) != 2 || entries[0].Key != "2024-01" || entries[1].Key != "2024-02" {
		t.Fatalf("unexpected entries %+v", entries)
	}

	var calls atomic.Int32
	e, err := c.GetOrFetch(context.Background(), "2024-02", countingFetch(&calls, nil, nil))
	if err != nil || calls.Load() != 0 || len(e.Fixtures) != 1 {
		t.Fatalf("expected restored entry served without fetch, got %+v err %v calls %d", e, err, calls.Load())
	}
}

func TestGetReturnsCopies(t *testing.T) {
	c := New()
	c.Restore([]Entry{{Key: "k", Status: StatusReady, Fixtures: finishedList("2024-01-06")}})

	e, _ := c.Get("k")
	e.Fixtures[0].Date = "mutated"

	again, _ := c.Get("k")
	if again.Fixtures[0].Date != "2024-01-06" {
		t.Fatal("expected stored entry to be isolated from callers")
	}
}

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorderTracksSourceAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSourceAttempt("footballdata", 10*time.Millisecond, nil)
	rec.RecordSourceAttempt("footballdata", 15*time.Millisecond, errors.New("boom"))

	if got := rec.SourceCalls("footballdata"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.SourceErrors("footballdata"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("footballdata"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("footballdata")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("footballdata", 5*time.Second)
	rec.RecordRateLimit("footballdata", 0)

	if got := rec.RateLimitHits("footballdata"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("footballdata"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksCacheLookups(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.RecordCacheLookup("results", CacheHit)
		}()
	}
	wg.Wait()
	rec.RecordCacheLookup("results", CacheMiss)
	rec.RecordCacheLookup("results", CacheEmpty)
	rec.RecordCacheLookup("results", CacheShared)

	snap := rec.CacheSnapshot("results")
	if snap.Hits != 10 || snap.Misses != 1 || snap.Empty != 1 || snap.Shared != 1 {
		t.Fatalf("unexpected cache snapshot %+v", snap)
	}
	if other := rec.CacheSnapshot("fixtures"); other != (CacheSnapshot{}) {
		t.Fatalf("expected caches to be tracked separately, got %+v", other)
	}
}

func TestRecorderTracksSettlementTotals(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSettlement(2, 7)
	rec.RecordSettlement(0, 0)
	rec.RecordSweep(time.Millisecond, nil)
	rec.RecordNotification(nil)

	settled, points, sweeps := rec.SettlementTotals()
	if settled != 2 || points != 7 || sweeps != 1 {
		t.Fatalf("unexpected totals settled=%d points=%d sweeps=%d", settled, points, sweeps)
	}
	if rec.Notifications() != 1 {
		t.Fatalf("expected 1 notification, got %d", rec.Notifications())
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordSourceAttempt("x", time.Millisecond, nil)
	rec.RecordRateLimit("x", time.Second)
	rec.RecordCacheLookup("x", CacheHit)
	rec.RecordSettlement(1, 5)
	rec.RecordSweep(time.Millisecond, nil)
	rec.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	if rec.SourceCalls("x") != 0 {
		t.Fatal("expected zero calls on nil recorder")
	}
}

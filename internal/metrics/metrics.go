package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
	empty  int
	shared int
}

// Recorder captures lightweight, in-memory metrics about source calls, cache lookups
// and settlement sweeps, mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu       sync.Mutex
	sources  map[string]*sourceStats
	caches   map[string]*cacheStats
	sweeps   int
	settled  int
	points   int
	notified int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		sources: make(map[string]*sourceStats),
		caches:  make(map[string]*cacheStats),
		otel:    otel,
	}
}

// RecordSourceAttempt increments counters for a source call and stores the last observed latency.
func (r *Recorder) RecordSourceAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.sourceLocked(source)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSourceAttempt(source, duration, err)
	}
}

// RecordRateLimit tracks that a source response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(source string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.sourceLocked(source)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(source, retryAfter)
	}
}

// CacheResult classifies a cache lookup.
type CacheResult string

const (
	CacheHit    CacheResult = "hit"
	CacheMiss   CacheResult = "miss"
	CacheEmpty  CacheResult = "empty"
	CacheShared CacheResult = "shared"
)

// RecordCacheLookup counts a lookup against the named cache.
func (r *Recorder) RecordCacheLookup(cache string, result CacheResult) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.caches[cache]
	if !ok {
		stats = &cacheStats{}
		r.caches[cache] = stats
	}
	switch result {
	case CacheHit:
		stats.hits++
	case CacheMiss:
		stats.misses++
	case CacheEmpty:
		stats.empty++
	case CacheShared:
		stats.shared++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(cache, result)
	}
}

// RecordSettlement tracks predictions settled and points awarded by one user pass.
func (r *Recorder) RecordSettlement(predictions, points int) {
	if r == nil || predictions == 0 {
		return
	}
	r.mu.Lock()
	r.settled += predictions
	r.points += points
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSettlement(predictions, points)
	}
}

// RecordNotification tracks a settlement summary handed to the notifier.
func (r *Recorder) RecordNotification(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.notified++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordNotification(err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordSweep tracks settlement sweep cycles and errors.
func (r *Recorder) RecordSweep(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.sweeps++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSweep(duration, err)
	}
}

// SourceCalls returns the total attempts recorded for a source.
func (r *Recorder) SourceCalls(source string) int {
	return r.Snapshot(source).Calls
}

// SourceErrors returns the total failed attempts recorded for a source.
func (r *Recorder) SourceErrors(source string) int {
	return r.Snapshot(source).Errors
}

// RateLimitHits returns the number of rate limit events seen for a source.
func (r *Recorder) RateLimitHits(source string) int {
	return r.Snapshot(source).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a source.
func (r *Recorder) LastRetryAfter(source string) time.Duration {
	return r.Snapshot(source).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a source call.
func (r *Recorder) LastCallLatency(source string) time.Duration {
	return r.Snapshot(source).LastCallLatency
}

// Snapshot returns a copy of the current stats for the source.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.sources[source]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// CacheSnapshot is a copy of the lookup counters of one cache.
type CacheSnapshot struct {
	Hits   int
	Misses int
	Empty  int
	Shared int
}

func (r *Recorder) CacheSnapshot(cache string) CacheSnapshot {
	if r == nil {
		return CacheSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.caches[cache]
	if !ok {
		return CacheSnapshot{}
	}
	return CacheSnapshot{Hits: stats.hits, Misses: stats.misses, Empty: stats.empty, Shared: stats.shared}
}

// SettlementTotals returns predictions settled, points awarded and sweeps run so far.
func (r *Recorder) SettlementTotals() (settled, points, sweeps int) {
	if r == nil {
		return 0, 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settled, r.points, r.sweeps
}

// Notifications returns the number of summaries handed to the notifier.
func (r *Recorder) Notifications() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notified
}

func (r *Recorder) sourceLocked(source string) *sourceStats {
	stats, ok := r.sources[source]
	if !ok {
		stats = &sourceStats{}
		r.sources[source] = stats
	}
	return stats
}

package fixturecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/providers"
)

const defaultFetchTimeout = 15 * time.Second

// FetchFunc loads the fixtures for one key from the source.
type FetchFunc func(ctx context.Context) ([]fixtures.Fixture, error)

// Persister receives every entry the cache stores.
type Persister interface {
	WriteEntry(entry Entry) error
}

// Resetter is implemented by persisters that can drop what they stored.
type Resetter interface {
	Reset() error
}

// Lookup is the read path shared by Cache and Scoped.
type Lookup interface {
	GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (Entry, error)
}

// Cache is a process-wide key/value cache of fixture lists with at most one
// in-flight fetch per key. Concurrent callers for a key share that fetch's outcome.
type Cache struct {
	name      string
	mu        sync.RWMutex
	entries   map[string]Entry
	gen       uint64
	group     singleflight.Group
	timeout   time.Duration
	cacheable func(Entry) bool
	persister Persister
	metrics   *metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithName labels the cache in logs and metrics.
func WithName(name string) Option {
	return func(c *Cache) { c.name = name }
}

// WithTimeout bounds a single fetch. Waiting callers give up with their own context.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCacheable decides which fetched entries are retained.
func WithCacheable(fn func(Entry) bool) Option {
	return func(c *Cache) {
		if fn != nil {
			c.cacheable = fn
		}
	}
}

// WithPersister writes every retained entry through to p.
func WithPersister(p Persister) Option {
	return func(c *Cache) { c.persister = p }
}

// WithMetrics records lookups on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Cache) { c.metrics = rec }
}

// WithLogger sets the fallback logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithClock overrides the time source used for FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		name:      "fixtures",
		entries:   make(map[string]Entry),
		timeout:   defaultFetchTimeout,
		cacheable: CacheAll,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the cache label.
func (c *Cache) Name() string {
	return c.name
}

// Get returns the stored entry for key.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// GetOrFetch returns the stored entry for key, fetching it when unknown.
// A source answer of ErrNoData is stored as an empty entry. Any other failure,
// including the fetch timeout, leaves the key unknown and is returned wrapping
// providers.ErrSourceUnavailable. If ctx ends first the caller gets ctx.Err()
// while the fetch runs on for the remaining callers.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (Entry, error) {
	if e, ok := c.Get(key); ok {
		c.record(hitResult(e))
		return e, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if e, ok := c.Get(key); ok {
			return e, nil
		}
		return c.fetch(ctx, key, fetch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Entry{}, res.Err
		}
		if res.Shared {
			c.record(metrics.CacheShared)
		} else {
			c.record(metrics.CacheMiss)
		}
		return res.Val.(Entry).clone(), nil
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
}

func (c *Cache) fetch(ctx context.Context, key string, fetch FetchFunc) (Entry, error) {
	gen := c.generation()
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := c.now()
	list, err := fetch(fctx)
	entry := Entry{Key: key, Status: StatusReady, Fixtures: list, FetchedAt: c.now().UTC()}
	switch {
	case err == nil && len(list) == 0:
		entry.Status, entry.Fixtures = StatusEmpty, nil
	case err == nil:
	case providers.IsNoData(err):
		entry.Status, entry.Fixtures = StatusEmpty, nil
	default:
		logging.Warn(logging.FromContext(ctx, c.logger), "fixture fetch failed",
			logging.FieldCacheKey, key, "cache", c.name, "err", err)
		if errors.Is(err, providers.ErrSourceUnavailable) {
			return Entry{}, fmt.Errorf("%s %s: %w", c.name, key, err)
		}
		return Entry{}, fmt.Errorf("%s %s: %w: %w", c.name, key, providers.ErrSourceUnavailable, err)
	}

	if c.cacheable(entry) {
		c.store(entry, gen)
	}
	logging.Info(logging.FromContext(ctx, c.logger), "fixture fetch complete",
		logging.FieldCacheKey, key,
		"cache", c.name,
		"status", string(entry.Status),
		logging.FieldCount, len(entry.Fixtures),
		logging.FieldDurationMS, c.now().Sub(start).Milliseconds(),
	)
	return entry, nil
}

func (c *Cache) store(entry Entry, gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		// Reset while the fetch was in flight.
		c.mu.Unlock()
		return
	}
	c.entries[entry.Key] = entry.clone()
	c.mu.Unlock()

	if c.persister != nil {
		if err := c.persister.WriteEntry(entry); err != nil {
			logging.Warn(c.logger, "persist cache entry failed", logging.FieldCacheKey, entry.Key, "err", err)
		}
	}
}

// Restore seeds the cache with previously persisted entries. Entries the cache
// would not retain are skipped. It returns the number restored.
func (c *Cache) Restore(entries []Entry) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range entries {
		if e.Key == "" || (e.Status != StatusReady && e.Status != StatusEmpty) || !c.cacheable(e) {
			continue
		}
		c.entries[e.Key] = e.clone()
		n++
	}
	return n
}

// Entries returns a copy of every stored entry ordered by key.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.clone())
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry, including any persisted copy. Fetches in flight
// complete for their callers but are not stored.
func (c *Cache) Reset() error {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.gen++
	c.mu.Unlock()

	if r, ok := c.persister.(Resetter); ok {
		return r.Reset()
	}
	return nil
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

func (c *Cache) record(result metrics.CacheResult) {
	c.metrics.RecordCacheLookup(c.name, result)
}

func hitResult(e Entry) metrics.CacheResult {
	if e.Empty() {
		return metrics.CacheEmpty
	}
	return metrics.CacheHit
}

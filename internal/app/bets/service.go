package bets

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainbets "github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/notify"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/store"
)

const (
	defaultMaxRetries       = 5
	defaultSweepConcurrency = 4
	defaultFetchConcurrency = 4
)

// UserStore persists user documents with an optimistic version guard.
type UserStore interface {
	Get(ctx context.Context, id string) (domainbets.User, error)
	Create(ctx context.Context, user domainbets.User) (domainbets.User, error)
	Save(ctx context.Context, user domainbets.User) (domainbets.User, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// Config wires the service dependencies. Store, Source, Dates and Results are required.
type Config struct {
	Store    UserStore
	Source   providers.FixtureSource
	Dates    *fixturecache.Cache
	Results  *fixturecache.Cache
	Notifier notify.Notifier
	Metrics  *metrics.Recorder
	Logger   *slog.Logger

	// MaxRetries bounds read-modify-write attempts on version conflicts.
	MaxRetries       int
	SweepConcurrency int
	FetchConcurrency int
}

// Service coordinates predictions, settlement and fixture lookups.
type Service struct {
	store    UserStore
	source   providers.FixtureSource
	dates    *fixturecache.Cache
	results  *fixturecache.Cache
	notifier notify.Notifier
	metrics  *metrics.Recorder
	logger   *slog.Logger

	maxRetries       int
	sweepConcurrency int
	fetchConcurrency int

	now   func() time.Time
	newID func() string
}

// NewService constructs a Service.
func NewService(cfg Config) *Service {
	s := &Service{
		store:            cfg.Store,
		source:           cfg.Source,
		dates:            cfg.Dates,
		results:          cfg.Results,
		notifier:         cfg.Notifier,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		maxRetries:       cfg.MaxRetries,
		sweepConcurrency: cfg.SweepConcurrency,
		fetchConcurrency: cfg.FetchConcurrency,
		now:              time.Now,
		newID:            uuid.NewString,
	}
	if s.maxRetries <= 0 {
		s.maxRetries = defaultMaxRetries
	}
	if s.sweepConcurrency <= 0 {
		s.sweepConcurrency = defaultSweepConcurrency
	}
	if s.fetchConcurrency <= 0 {
		s.fetchConcurrency = defaultFetchConcurrency
	}
	if s.dates == nil {
		s.dates = fixturecache.New(fixturecache.WithName("dates"))
	}
	if s.results == nil {
		s.results = fixturecache.New(fixturecache.WithName("results"), fixturecache.WithCacheable(fixturecache.CacheFinal))
	}
	return s
}

// User returns the stored user document.
func (s *Service) User(ctx context.Context, id string) (domainbets.User, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return domainbets.User{}, storeError(id, err)
	}
	return u, nil
}

// LoadOrCreateUser returns the user, creating it on first sight, after settling
// whatever its pending predictions allow.
func (s *Service) LoadOrCreateUser(ctx context.Context, id, email string) (domainbets.User, error) {
	if id == "" {
		return domainbets.User{}, newError(KindInvalidInput, nil, "user id required")
	}

	u, err := s.store.Get(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u, err = s.store.Create(ctx, domainbets.User{
			ID:        id,
			Email:     email,
			Pending:   []domainbets.Prediction{},
			History:   []domainbets.WeeklyBucket{},
			CreatedAt: s.now().UTC(),
		})
		if errors.Is(err, store.ErrExists) {
			u, err = s.store.Get(ctx, id)
		}
		if err != nil {
			return domainbets.User{}, storeError(id, err)
		}
		s.logInfo(ctx, "user created", "user_id", id)
		return u, nil
	case err != nil:
		return domainbets.User{}, storeError(id, err)
	}

	if email != "" && u.Email == "" {
		u, err = s.mutate(ctx, id, func(next *domainbets.User) error {
			if next.Email == "" {
				next.Email = email
			}
			return nil
		})
		if err != nil {
			return domainbets.User{}, err
		}
	}

	if len(u.Pending) == 0 {
		return u, nil
	}
	res, err := s.SettleUser(ctx, id)
	if err != nil {
		return domainbets.User{}, err
	}
	return res.User, nil
}

// mutate applies fn to a fresh copy of the user and saves it, retrying on version
// conflicts. An error from fn aborts without writing.
func (s *Service) mutate(ctx context.Context, id string, fn func(*domainbets.User) error) (domainbets.User, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return domainbets.User{}, storeError(id, err)
		}
		next := current.Clone()
		if err := fn(&next); err != nil {
			return domainbets.User{}, err
		}
		saved, err := s.store.Save(ctx, next)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return domainbets.User{}, storeError(id, err)
		}
		lastErr = err
	}
	return domainbets.User{}, newError(KindStoreFailure, lastErr, "user %s kept changing, gave up after %d attempts", id, s.maxRetries)
}

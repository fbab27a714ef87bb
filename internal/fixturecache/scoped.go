package fixturecache

import (
	"context"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/providers"
)

// Scoped layers a short-lived cache over a shared one. Every answer the shared
// cache gives, including batches it declined to retain, is kept for the life of
// the Scoped value, so a key is fetched at most once per scope.
type Scoped struct {
	shared Lookup
	local  *Cache
}

// NewScoped returns a scope over shared. Create one per settlement sweep.
func NewScoped(shared *Cache) *Scoped {
	return &Scoped{
		shared: shared,
		local: New(
			WithName(shared.name+"-scope"),
			WithTimeout(shared.timeout),
			WithClock(shared.now),
			WithLogger(shared.logger),
		),
	}
}

// GetOrFetch answers from the scope, then the shared cache, then the source.
func (s *Scoped) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (Entry, error) {
	return s.local.GetOrFetch(ctx, key, func(ctx context.Context) ([]fixtures.Fixture, error) {
		e, err := s.shared.GetOrFetch(ctx, key, fetch)
		if err != nil {
			return nil, err
		}
		if e.Empty() {
			return nil, providers.ErrNoData
		}
		return e.Fixtures, nil
	})
}

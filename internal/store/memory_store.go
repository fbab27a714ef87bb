package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
)

// MemoryStore keeps thread-safe copies of user documents in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]bets.User
	now   func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]bets.User),
		now:   time.Now,
	}
}

// Get returns a copy of the user document.
func (s *MemoryStore) Get(_ context.Context, id string) (bets.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return bets.User{}, ErrNotFound
	}
	return u.Clone(), nil
}

// Create stores a new user at version 1.
func (s *MemoryStore) Create(_ context.Context, user bets.User) (bets.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return bets.User{}, ErrExists
	}
	now := s.now().UTC()
	user.Version = 1
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = user.Clone()
	return user.Clone(), nil
}

// Save replaces the document when its version still matches the stored one,
// and returns it with the version advanced.
func (s *MemoryStore) Save(_ context.Context, user bets.User) (bets.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return bets.User{}, ErrNotFound
	}
	if current.Version != user.Version {
		return bets.User{}, ErrConflict
	}
	user.Version++
	user.UpdatedAt = s.now().UTC()
	s.users[user.ID] = user.Clone()
	return user.Clone(), nil
}

// ListIDs returns every stored user id in ascending order.
func (s *MemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

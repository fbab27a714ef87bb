package store

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

type userStore interface {
	Get(ctx context.Context, id string) (bets.User, error)
	Create(ctx context.Context, user bets.User) (bets.User, error)
	Save(ctx context.Context, user bets.User) (bets.User, error)
	ListIDs(ctx context.Context) ([]string, error)
}

func sampleUser(id string) bets.User {
	return bets.User{
		ID:    id,
		Email: id + "@example.com",
		Pending: []bets.Prediction{{
			ID:             "p1",
			Teams:          fixtures.NewTeamPair("Arsenal", "Chelsea"),
			PredictedScore: fixtures.ScorePair{Home: 2, Away: 1},
			GameDate:       "2024-01-06",
		}},
	}
}

func exerciseStore(t *testing.T, s userStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := s.Create(ctx, sampleUser("u1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Version != 1 || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user %+v", created)
	}
	if _, err := s.Create(ctx, sampleUser("u1")); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != "u1@example.com" || len(got.Pending) != 1 || got.Version != 1 {
		t.Fatalf("unexpected stored user %+v", got)
	}

	got.Pending = nil
	got.History = []bets.WeeklyBucket{{Week: "2024-01-06", TotalPoints: 5}}
	saved, err := s.Save(ctx, got)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	// got still carries version 1.
	if _, err := s.Save(ctx, got); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
	if _, err := s.Save(ctx, sampleUser("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on save, got %v", err)
	}

	reloaded, _ := s.Get(ctx, "u1")
	if len(reloaded.Pending) != 0 || reloaded.TotalPoints() != 5 || reloaded.Version != 2 {
		t.Fatalf("unexpected reloaded user %+v", reloaded)
	}

	if _, err := s.Create(ctx, sampleUser("a0")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ids, err := s.ListIDs(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a0" || ids[1] != "u1" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if _, err := s.Create(ctx, sampleUser("u1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	u, _ := s.Get(ctx, "u1")
	u.Pending[0].GameDate = "mutated"

	again, _ := s.Get(ctx, "u1")
	if again.Pending[0].GameDate != "2024-01-06" {
		t.Fatalf("expected stored user to be isolated from caller mutations")
	}
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{
		"sqlite":     DialectSQLite,
		"SQLite3":    DialectSQLite,
		"postgres":   DialectPostgres,
		" pgx ":      DialectPostgres,
		"postgresql": DialectPostgres,
	}
	for in, want := range cases {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Fatalf("ParseDialect(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("mongo"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	q := `UPDATE users SET a = ?, b = ? WHERE id = ?`
	if got := DialectSQLite.rebind(q); got != q {
		t.Fatalf("expected sqlite query unchanged, got %s", got)
	}
	want := `UPDATE users SET a = $1, b = $2 WHERE id = $3`
	if got := DialectPostgres.rebind(q); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

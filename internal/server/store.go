package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/store"
)

// buildStore opens the configured user store. The returned close func is never nil.
func buildStore(ctx context.Context, cfg config.StoreConfig) (bets.UserStore, func() error, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "memory" {
		return store.NewMemoryStore(), func() error { return nil }, nil
	}
	dialect, err := store.ParseDialect(driver)
	if err != nil {
		return nil, nil, err
	}
	sqlStore, err := store.Open(ctx, dialect, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	return sqlStore, sqlStore.Close, nil
}

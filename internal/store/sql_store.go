package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
)

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id TEXT NOT NULL PRIMARY KEY,
	email TEXT NOT NULL,
	document TEXT NOT NULL,
	version BIGINT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLStore persists one JSON user document per row through database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects to the database, verifies it and creates the users table.
func Open(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// sqlite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s store: %w", dialect, err)
	}
	s := NewSQLStore(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

// Migrate creates the users table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get loads the user document for id.
func (s *SQLStore) Get(ctx context.Context, id string) (bets.User, error) {
	var (
		doc     string
		version int64
	)
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT document, version FROM users WHERE id = ?`), id).
		Scan(&doc, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return bets.User{}, ErrNotFound
	}
	if err != nil {
		return bets.User{}, fmt.Errorf("get user %s: %w", id, err)
	}

	var u bets.User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return bets.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	u.Version = version
	return u, nil
}

// Create inserts a new user at version 1.
func (s *SQLStore) Create(ctx context.Context, user bets.User) (bets.User, error) {
	now := s.now().UTC()
	user.Version = 1
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	doc, err := json.Marshal(user)
	if err != nil {
		return bets.User{}, fmt.Errorf("encode user %s: %w", user.ID, err)
	}
	res, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`INSERT INTO users (id, email, document, version, updated_at) VALUES (?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`),
		user.ID, user.Email, string(doc), user.Version, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return bets.User{}, fmt.Errorf("create user %s: %w", user.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return bets.User{}, ErrExists
	}
	return user, nil
}

// Save replaces the document only when the stored version equals user.Version,
// and returns it with the version advanced.
func (s *SQLStore) Save(ctx context.Context, user bets.User) (bets.User, error) {
	expected := user.Version
	user.Version = expected + 1
	user.UpdatedAt = s.now().UTC()

	doc, err := json.Marshal(user)
	if err != nil {
		return bets.User{}, fmt.Errorf("encode user %s: %w", user.ID, err)
	}
	res, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`UPDATE users SET email = ?, document = ?, version = ?, updated_at = ? WHERE id = ? AND version = ?`),
		user.Email, string(doc), user.Version, user.UpdatedAt.Format(time.RFC3339Nano), user.ID, expected,
	)
	if err != nil {
		return bets.User{}, fmt.Errorf("save user %s: %w", user.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return bets.User{}, fmt.Errorf("save user %s: %w", user.ID, err)
	}
	if n == 1 {
		return user, nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT 1 FROM users WHERE id = ?`), user.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return bets.User{}, ErrNotFound
	}
	if err != nil {
		return bets.User{}, fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return bets.User{}, ErrConflict
}

// ListIDs returns every stored user id in ascending order.
func (s *SQLStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

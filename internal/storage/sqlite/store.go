// Package sqlite persists saved games and profiles in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"designrage/internal/profile"
	"designrage/internal/storage/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed game and profile store.
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

// Open opens the database at path and applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveState(ctx context.Context, key string, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_states (id, state, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		key, string(blob), toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert game state: %w", err)
	}
	return nil
}

func (s *Store) LoadState(ctx context.Context, key string) ([]byte, bool, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM game_states WHERE id = ?`, key).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select game state: %w", err)
	}
	return []byte(state), true, nil
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_states WHERE id = ?`, key); err != nil {
		return fmt.Errorf("delete game state: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, userID string, p profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO user_profiles (id, username, profile, last_login, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    username = excluded.username,
    profile = excluded.profile,
    last_login = excluded.last_login,
    updated_at = excluded.updated_at`,
		userID, p.Username, string(data), toMillis(p.LastLogin), toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) LoadProfile(ctx context.Context, userID string) (profile.Profile, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT profile FROM user_profiles WHERE id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, false, nil
	}
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("select profile: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return profile.Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

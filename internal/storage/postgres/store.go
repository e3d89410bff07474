// Package postgres persists saved games and profiles in PostgreSQL via gorm.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"designrage/internal/profile"
)

// Store wraps gorm.DB and exposes Close.
type Store struct {
	gorm *gorm.DB
	sql  *sql.DB
}

// Open connects to dsn. The schema is expected to be migrated already.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		return nil, err
	}
	return &Store{gorm: gdb, sql: sdb}, nil
}

func (s *Store) Close() error { return s.sql.Close() }

func (s *Store) SaveState(ctx context.Context, key string, blob []byte) error {
	err := s.gorm.WithContext(ctx).Exec(`INSERT INTO game_states(id, state, updated_at) VALUES(?, ?::jsonb, now())
ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`, key, string(blob)).Error
	if err != nil {
		return fmt.Errorf("upsert game state: %w", err)
	}
	return nil
}

func (s *Store) LoadState(ctx context.Context, key string) ([]byte, bool, error) {
	var state string
	row := s.gorm.WithContext(ctx).Raw(`SELECT state::text FROM game_states WHERE id = ?`, key).Row()
	if err := row.Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select game state: %w", err)
	}
	return []byte(state), true, nil
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	if err := s.gorm.WithContext(ctx).Exec(`DELETE FROM game_states WHERE id = ?`, key).Error; err != nil {
		return fmt.Errorf("delete game state: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, userID string, p profile.Profile) error {
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	ach, err := json.Marshal(p.Achievements)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	err = s.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO user_profiles(id, username, stats, achievements, last_login, updated_at)
VALUES(?, ?, ?::jsonb, ?::jsonb, ?, now())
ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, stats = EXCLUDED.stats,
    achievements = EXCLUDED.achievements, last_login = EXCLUDED.last_login, updated_at = now()`,
			userID, p.Username, string(stats), string(ach), p.LastLogin.UTC()).Error
	})
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) LoadProfile(ctx context.Context, userID string) (profile.Profile, bool, error) {
	var (
		p          profile.Profile
		stats, ach string
	)
	row := s.gorm.WithContext(ctx).Raw(`SELECT username, stats::text, achievements::text, last_login FROM user_profiles WHERE id = ?`, userID).Row()
	if err := row.Scan(&p.Username, &stats, &ach, &p.LastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("select profile: %w", err)
	}
	if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
		return profile.Profile{}, false, fmt.Errorf("decode stats: %w", err)
	}
	if err := json.Unmarshal([]byte(ach), &p.Achievements); err != nil {
		return profile.Profile{}, false, fmt.Errorf("decode achievements: %w", err)
	}
	return p, true, nil
}

// Package storage selects the persistence backend for saved games and
// profiles.
package storage

import (
	"context"
	"errors"
	"fmt"

	"designrage/internal/config"
	"designrage/internal/game"
	"designrage/internal/profile"
	"designrage/internal/storage/memory"
	"designrage/internal/storage/postgres"
	"designrage/internal/storage/sqlite"
	"designrage/internal/storage/supabase"
)

// Backend persists both session blobs and profiles.
type Backend interface {
	game.StateStore
	profile.Store
	Close() error
}

// ErrUnknownBackend is returned for an unsupported config.Store value.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open returns the backend named by cfg.Store.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.Store {
	case "", config.StoreMemory:
		return memory.New(), nil
	case config.StoreSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.StorePostgres:
		if err := postgres.NewMigrator(cfg.DatabaseURL).Up(ctx); err != nil && !errors.Is(err, postgres.ErrNoChange) {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		return postgres.Open(ctx, cfg.DatabaseURL)
	case config.StoreSupabase:
		return supabase.Open(cfg.SupabaseURL, cfg.SupabaseKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Store)
	}
}

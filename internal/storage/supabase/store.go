// Package supabase persists saved games and profiles through Supabase's
// PostgREST API. The tables mirror the Postgres schema.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"designrage/internal/profile"
)

const (
	statesTable   = "game_states"
	profilesTable = "user_profiles"
)

// Store talks to a Supabase project with a service key.
type Store struct {
	client *supa.Client
}

type stateRow struct {
	ID        string          `json:"id"`
	State     json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type profileRow struct {
	ID           string                `json:"id"`
	Username     string                `json:"username"`
	Stats        profile.Stats         `json:"stats"`
	Achievements []profile.Achievement `json:"achievements"`
	LastLogin    time.Time             `json:"last_login"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func Open(url, key string) (*Store, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	c, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &Store{client: c}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) SaveState(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := stateRow{ID: key, State: json.RawMessage(blob), UpdatedAt: time.Now().UTC()}
	if _, _, err := s.client.From(statesTable).Upsert(row, "id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("upsert game state: %w", err)
	}
	return nil
}

func (s *Store) LoadState(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var rows []stateRow
	if _, err := s.client.From(statesTable).Select("id,state", "", false).Eq("id", key).ExecuteTo(&rows); err != nil {
		return nil, false, fmt.Errorf("select game state: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return []byte(rows[0].State), true, nil
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(statesTable).Delete("minimal", "").Eq("id", key).Execute(); err != nil {
		return fmt.Errorf("delete game state: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, userID string, p profile.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := profileRow{
		ID:           userID,
		Username:     p.Username,
		Stats:        p.Stats,
		Achievements: p.Achievements,
		LastLogin:    p.LastLogin.UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if _, _, err := s.client.From(profilesTable).Upsert(row, "id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) LoadProfile(ctx context.Context, userID string) (profile.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, false, err
	}
	var rows []profileRow
	if _, err := s.client.From(profilesTable).Select("*", "", false).Eq("id", userID).ExecuteTo(&rows); err != nil {
		return profile.Profile{}, false, fmt.Errorf("select profile: %w", err)
	}
	if len(rows) == 0 {
		return profile.Profile{}, false, nil
	}
	r := rows[0]
	return profile.Profile{
		Username:     r.Username,
		Stats:        r.Stats,
		Achievements: r.Achievements,
		LastLogin:    r.LastLogin,
	}, true, nil
}

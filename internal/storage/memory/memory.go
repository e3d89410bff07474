// Package memory keeps saved games and profiles in process memory.
package memory

import (
	"context"

	"designrage/internal/profile"
	"designrage/internal/session"
)

// Store is a last-write-wins in-memory backend.
type Store struct {
	states   *session.MemoryStore[[]byte]
	profiles *session.MemoryStore[profile.Profile]
}

func New() *Store {
	return &Store{
		states:   session.NewMemoryStore[[]byte](),
		profiles: session.NewMemoryStore[profile.Profile](),
	}
}

func (s *Store) SaveState(ctx context.Context, key string, blob []byte) error {
	return s.states.Put(ctx, key, append([]byte(nil), blob...))
}

func (s *Store) LoadState(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := s.states.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return append([]byte(nil), b...), true, nil
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	return s.states.Delete(ctx, key)
}

func (s *Store) SaveProfile(ctx context.Context, userID string, p profile.Profile) error {
	return s.profiles.Put(ctx, userID, p)
}

func (s *Store) LoadProfile(ctx context.Context, userID string) (profile.Profile, bool, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *Store) Close() error { return nil }

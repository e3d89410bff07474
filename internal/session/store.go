package session

import "context"

// Store keeps values per session id. Last write wins.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	NewID() string
	// Len reports how many sessions are held.
	Len() int
}

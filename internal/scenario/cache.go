package scenario

import (
	"context"
	"sync"

	"designrage/internal/game"

	"golang.org/x/sync/singleflight"
)

// Fetcher produces a fresh scenario list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]game.Scenario, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]game.Scenario, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]game.Scenario, error) { return f(ctx) }

// Static serves a fixed pack.
func Static(p *Pack) Fetcher {
	return FetcherFunc(func(context.Context) ([]game.Scenario, error) {
		return append([]game.Scenario(nil), p.Scenarios...), nil
	})
}

// Cache is the scenario source owned by one session. Concurrent loads share
// a single fetch, and a loaded list is served until Reset.
type Cache struct {
	fetcher Fetcher
	chaos   []game.ChaosEvent

	group singleflight.Group

	mu     sync.Mutex
	cached []game.Scenario
	gen    int
}

// NewCache returns an empty cache over fetcher with a fixed chaos pool.
func NewCache(fetcher Fetcher, chaos []game.ChaosEvent) *Cache {
	return &Cache{fetcher: fetcher, chaos: chaos}
}

// Load returns the cached list, fetching it first if needed.
//
// A shared fetch runs under the ctx of the caller that started it, so that
// caller's cancellation fails every Load waiting on the same fetch. Nothing
// is cached on failure and the next Load fetches again.
func (c *Cache) Load(ctx context.Context) ([]game.Scenario, error) {
	v, err, _ := c.group.Do("scenarios", func() (any, error) {
		c.mu.Lock()
		if c.cached != nil {
			scs := c.cached
			c.mu.Unlock()
			return scs, nil
		}
		gen := c.gen
		c.mu.Unlock()

		scs, err := c.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// a Reset during the fetch means this list belongs to the old session
		if c.gen == gen {
			c.cached = scs
		}
		c.mu.Unlock()
		return scs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]game.Scenario), nil
}

// Reset discards the cached list so the next Load fetches again.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.gen++
	c.group.Forget("scenarios")
}

// Chaos returns the chaos event pool.
func (c *Cache) Chaos() []game.ChaosEvent { return c.chaos }

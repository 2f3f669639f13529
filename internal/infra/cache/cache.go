// Package cache provides the response cache used in front of the dataset.
// Redis is optional: when it is absent or unhealthy the API keeps serving
// from the in-memory dataset, so every cache method degrades to a miss
// rather than an error the caller has to handle.
package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// Cache is the read-through cache the lookup service talks to.
type Cache interface {
	// Get returns the cached payload for key, or ok=false on a miss.
	// Backend errors count as misses.
	Get(ctx context.Context, key string) (val []byte, ok bool)
	// Set stores val under key with the given TTL. Errors are absorbed.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	// Clear removes all keys under the application prefix and reports how
	// many were removed.
	Clear(ctx context.Context) (int, error)
	// Connected reports whether the backend currently answers a ping.
	Connected(ctx context.Context) bool
	// Stats returns a snapshot of hit/miss/error counters.
	Stats() Stats
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Enabled   bool    `json:"enabled"`
	Connected bool    `json:"cache_connected"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Errors    uint64  `json:"errors"`
	HitRate   float64 `json:"hit_rate"`
}

// counters tracks hits, misses and backend errors. Shared by the backends.
type counters struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

func (c *counters) snapshot() (hits, misses, errs uint64, hitRate float64) {
	hits = c.hits.Load()
	misses = c.misses.Load()
	errs = c.errors.Load()
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return hits, misses, errs, hitRate
}

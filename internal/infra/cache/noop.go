package cache

import (
	"context"
	"time"
)

// Noop is the cache used when Redis is not configured or failed its startup
// ping. Every Get is a miss and Set is a no-op, so callers never branch on
// whether caching is enabled.
type Noop struct {
	counters counters
}

// NewNoop returns a disabled cache.
func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Get(ctx context.Context, key string) ([]byte, bool) {
	n.counters.misses.Add(1)
	return nil, false
}

func (n *Noop) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {}

func (n *Noop) Clear(ctx context.Context) (int, error) { return 0, nil }

func (n *Noop) Connected(ctx context.Context) bool { return false }

func (n *Noop) Stats() Stats {
	hits, misses, errs, rate := n.counters.snapshot()
	return Stats{Enabled: false, Connected: false, Hits: hits, Misses: misses, Errors: errs, HitRate: rate}
}

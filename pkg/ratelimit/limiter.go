package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter evaluates policies against a store. A request must pass every
// limit in the policy; the reported headers come from the limit with the
// fewest requests remaining, since that is the one the client will hit
// first.
type Limiter struct {
	store   Store
	algo    Algorithm
	metrics Metrics
	clock   Clock
}

// NewLimiter wires a limiter. A nil metrics means NoOpMetrics.
func NewLimiter(store Store, algo Algorithm, metrics Metrics) *Limiter {
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &Limiter{store: store, algo: algo, metrics: metrics, clock: SystemClock{}}
}

// Allow checks key against every limit in policy. endpoint is only used as
// a metric label.
//
// Each limit tracks its own window, so the store key is scoped by window
// length. A denial by a later limit leaves the earlier windows charged for
// the attempt, which matches counting the request itself, not its outcome.
func (l *Limiter) Allow(ctx context.Context, key string, policy Policy, endpoint string) (*Decision, error) {
	start := l.clock.Now()
	defer func() {
		l.metrics.RecordCheckDuration(policy.Name, l.clock.Now().Sub(start))
	}()

	var binding *Decision
	for _, limit := range policy.Limits {
		scopedKey := fmt.Sprintf("%s:%s", key, limit.Window)
		d, err := l.algo.Allow(ctx, scopedKey, l.store, limit)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", policy.Name, err)
		}
		d.Key = key
		d.Scope = policy.Name

		if !d.Allowed {
			l.metrics.RecordDenied(policy.Name, endpoint)
			return d, nil
		}
		if binding == nil || d.Remaining < binding.Remaining {
			binding = d
		}
	}

	l.metrics.RecordAllowed(policy.Name, endpoint)
	return binding, nil
}

// expirer is implemented by algorithms that track per-key state of their
// own, outside the store, and need the same periodic pruning.
type expirer interface {
	CleanupExpired(maxAge time.Duration) int
}

// StartCleanup trims the store and the algorithm's key tracking every
// interval until ctx is cancelled. retention must cover the longest window
// of any policy using the store.
func (l *Limiter) StartCleanup(ctx context.Context, interval, retention time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				cutoff := l.clock.Now().Add(-retention)
				_ = l.store.Cleanup(ctx, cutoff)
				if e, ok := l.algo.(expirer); ok {
					e.CleanupExpired(retention)
				}
				if count, err := l.store.KeyCount(ctx); err == nil {
					l.metrics.SetActiveKeys("store", count)
				}
			}
		}
	}()
}

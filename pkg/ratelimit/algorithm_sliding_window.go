package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SlidingWindow is the default Algorithm. It counts individual request
// timestamps inside a moving window, so bursts at window edges are limited
// accurately instead of doubling as they can under fixed windows.
//
// A clock that jumps backwards (NTP step, manual change) would widen the
// window and let extra requests through. The algorithm pins each key to the
// latest timestamp it has seen and refuses to move time backwards.
type SlidingWindow struct {
	clock Clock

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewSlidingWindow creates the algorithm. A nil clock means system time.
func NewSlidingWindow(clock Clock) *SlidingWindow {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SlidingWindow{
		clock:    clock,
		lastSeen: make(map[string]time.Time),
	}
}

// Allow implements Algorithm.
func (a *SlidingWindow) Allow(ctx context.Context, key string, store Store, limit Limit) (*Decision, error) {
	now := a.validTimestamp(key)
	cutoff := now.Add(-limit.Window)
	resetAt := now.Add(limit.Window)

	allowed, count, err := store.CheckAndAdd(ctx, key, now, cutoff, limit.Count)
	if err != nil {
		return nil, fmt.Errorf("sliding window check: %w", err)
	}

	if allowed {
		return NewAllowedDecision(key, "", limit.Count, limit.Count-count, resetAt), nil
	}
	return NewDeniedDecision(key, "", limit.Count, resetAt), nil
}

// validTimestamp returns the current time, clamped so it never goes
// backwards for a given key.
func (a *SlidingWindow) validTimestamp(key string) time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	if last, ok := a.lastSeen[key]; ok && now.Before(last) {
		slog.Warn("clock skew detected, using last valid timestamp",
			slog.String("key", key),
			slog.Time("now", now),
			slog.Time("last_seen", last),
			slog.Duration("skew", last.Sub(now)))
		return last
	}
	a.lastSeen[key] = now
	return now
}

// CleanupExpired drops clock-skew tracking entries older than maxAge.
// Returns the number removed.
func (a *SlidingWindow) CleanupExpired(maxAge time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.clock.Now().Add(-maxAge)
	removed := 0
	for key, ts := range a.lastSeen {
		if ts.Before(cutoff) {
			delete(a.lastSeen, key)
			removed++
		}
	}
	return removed
}

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket is an Algorithm built on golang.org/x/time/rate. It keeps one
// rate.Limiter per key and window, refilling Count tokens over Window with a
// burst of Count. Compared to the sliding window it forgives short bursts
// after idle periods and needs no Store, so it suits a single-replica
// deployment where approximate limits are acceptable.
type TokenBucket struct {
	clock Clock

	mu      sync.Mutex
	buckets map[string]*bucketEntry
	idleTTL time.Duration
}

type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucket creates the algorithm. Buckets idle longer than idleTTL
// are dropped by StartJanitor.
func NewTokenBucket(clock Clock, idleTTL time.Duration) *TokenBucket {
	if clock == nil {
		clock = SystemClock{}
	}
	if idleTTL <= 0 {
		idleTTL = 15 * time.Minute
	}
	return &TokenBucket{
		clock:   clock,
		buckets: make(map[string]*bucketEntry),
		idleTTL: idleTTL,
	}
}

// Allow implements Algorithm. The store argument is unused: token buckets
// carry their own state.
func (a *TokenBucket) Allow(ctx context.Context, key string, _ Store, limit Limit) (*Decision, error) {
	now := a.clock.Now()
	lim := a.bucket(key, limit, now)

	resetAt := now.Add(limit.Window)
	if lim.AllowN(now, 1) {
		remaining := int(lim.TokensAt(now))
		if remaining < 0 {
			remaining = 0
		}
		return NewAllowedDecision(key, "", limit.Count, remaining, resetAt), nil
	}

	// Time until one token is available.
	retryAt := now.Add(limit.Window / time.Duration(limit.Count))
	d := NewDeniedDecision(key, "", limit.Count, retryAt)
	return d, nil
}

func (a *TokenBucket) bucket(key string, limit Limit, now time.Time) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ent, ok := a.buckets[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	refill := rate.Limit(float64(limit.Count) / limit.Window.Seconds())
	lim := rate.NewLimiter(refill, limit.Count)
	a.buckets[key] = &bucketEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops buckets idle longer than the TTL. Returns the number
// removed.
func (a *TokenBucket) Cleanup() int {
	cutoff := a.clock.Now().Add(-a.idleTTL)

	a.mu.Lock()
	defer a.mu.Unlock()

	removed := 0
	for key, ent := range a.buckets {
		if ent.lastSeen.Before(cutoff) {
			delete(a.buckets, key)
			removed++
		}
	}
	return removed
}

// StartJanitor cleans idle buckets every interval until ctx is cancelled.
func (a *TokenBucket) StartJanitor(ctx context.Context, interval time.Duration) {
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
				a.Cleanup()
			}
		}
	}()
}

// Package ratelimit provides framework-agnostic request rate limiting.
//
// A Limiter evaluates a Policy (one or more limits such as "200 per day"
// and "50 per hour") against a pluggable Store and Algorithm. Storage can be
// in-memory or Redis, so limits survive restarts and are shared between
// replicas when Redis is available. Metrics are pluggable as well.
package ratelimit

import (
	"context"
	"time"
)

// Store persists request timestamps per key. All methods must be safe for
// concurrent use.
type Store interface {
	// CheckAndAdd atomically counts the requests for key recorded after
	// cutoff and, when the count is below limit, records one at now.
	// The check and the add happen under a single lock or script so
	// concurrent requests cannot slip past the limit.
	//
	// Returns whether the request was admitted and the count in the window
	// including the new request when admitted.
	CheckAndAdd(ctx context.Context, key string, now, cutoff time.Time, limit int) (allowed bool, count int, err error)

	// Cleanup drops timestamps recorded before cutoff.
	Cleanup(ctx context.Context, cutoff time.Time) error

	// KeyCount returns the number of keys currently tracked.
	KeyCount(ctx context.Context) (int, error)
}

// Algorithm decides whether a request within a single limit is allowed.
type Algorithm interface {
	Allow(ctx context.Context, key string, store Store, limit Limit) (*Decision, error)
}

// Metrics records rate limiting observations. Implementations must be safe
// for concurrent use.
type Metrics interface {
	RecordAllowed(scope, endpoint string)
	RecordDenied(scope, endpoint string)
	RecordCheckDuration(scope string, d time.Duration)
	SetActiveKeys(scope string, count int)
}

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

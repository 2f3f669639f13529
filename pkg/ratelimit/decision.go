package ratelimit

import (
	"fmt"
	"time"
)

// Decision is the outcome of a rate limit check, with the metadata clients
// need to pace themselves (X-RateLimit-* headers, Retry-After).
type Decision struct {
	// Key is the identifier the limit was applied to, e.g. a client IP.
	Key string

	// Allowed reports whether the request is within the limit.
	Allowed bool

	// Limit is the quota of the binding limit. When a policy carries
	// several limits this is the one with the fewest requests remaining.
	Limit int

	// Remaining is the number of requests left in the binding window.
	Remaining int

	// ResetAt is when the binding window expires.
	ResetAt time.Time

	// RetryAfter is how long a denied client should wait.
	RetryAfter time.Duration

	// Scope names the policy that produced the decision.
	Scope string
}

func (d *Decision) String() string {
	if d.Allowed {
		return fmt.Sprintf("Decision{allowed, key=%s, scope=%s, remaining=%d/%d}",
			d.Key, d.Scope, d.Remaining, d.Limit)
	}
	return fmt.Sprintf("Decision{denied, key=%s, scope=%s, limit=%d, retry_after=%s}",
		d.Key, d.Scope, d.Limit, d.RetryAfter)
}

// ResetAtUnix returns the reset time as a Unix timestamp for the
// X-RateLimit-Reset header.
func (d *Decision) ResetAtUnix() int64 { return d.ResetAt.Unix() }

// RetryAfterSeconds returns the retry delay in whole seconds, rounded up so
// a client that waits exactly this long lands past the reset.
func (d *Decision) RetryAfterSeconds() int64 {
	if d.RetryAfter <= 0 {
		return 0
	}
	secs := int64((d.RetryAfter + time.Second - 1) / time.Second)
	return secs
}

// NewAllowedDecision builds a Decision for an admitted request.
func NewAllowedDecision(key, scope string, limit, remaining int, resetAt time.Time) *Decision {
	retryAfter := time.Until(resetAt)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &Decision{
		Key:        key,
		Allowed:    true,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
		Scope:      scope,
	}
}

// NewDeniedDecision builds a Decision for a rejected request.
func NewDeniedDecision(key, scope string, limit int, resetAt time.Time) *Decision {
	retryAfter := time.Until(resetAt)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &Decision{
		Key:        key,
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
		Scope:      scope,
	}
}

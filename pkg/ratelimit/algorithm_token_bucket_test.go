package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	algo := NewTokenBucket(clock, time.Hour)
	limit := Limit{Count: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		d, err := algo.Allow(ctx, "ip1", nil, limit)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}

	d, err := algo.Allow(ctx, "ip1", nil, limit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if d.Allowed {
		t.Error("request over burst allowed, want denied")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want positive", d.RetryAfter)
	}

	// One window refills the full burst.
	clock.Advance(time.Minute)
	if d, _ := algo.Allow(ctx, "ip1", nil, limit); !d.Allowed {
		t.Error("request after refill denied")
	}
}

func TestTokenBucketCleanup(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	algo := NewTokenBucket(clock, time.Minute)
	limit := Limit{Count: 10, Window: time.Minute}

	if _, err := algo.Allow(ctx, "ip1", nil, limit); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if _, err := algo.Allow(ctx, "ip2", nil, limit); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	clock.Advance(2 * time.Minute)
	if removed := algo.Cleanup(); removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
}

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// Operation timeouts. Cache calls sit on the request path and must stay
// well under any client-visible latency target.
const (
	opTimeout   = 250 * time.Millisecond
	pingTimeout = time.Second
)

// Redis is the go-redis backed cache. All operations run through a circuit
// breaker so a dead Redis degrades to fast misses instead of per-request
// connection timeouts.
type Redis struct {
	client   *redis.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
	counters counters
}

// NewRedis wraps an already-constructed client. The caller is expected to
// have pinged it once at startup.
func NewRedis(client *redis.Client, logger *slog.Logger) *Redis {
	settings := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &Redis{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.counters.misses.Add(1)
			return nil, false
		}
		r.counters.errors.Add(1)
		r.counters.misses.Add(1)
		r.logger.Warn("cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	r.counters.hits.Add(1)
	return val.([]byte), true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, key, val, ttl).Err()
	})
	if err != nil {
		r.counters.errors.Add(1)
		r.logger.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Clear deletes every key under the application prefix via SCAN, never
// FLUSHDB, so a shared Redis instance stays intact. Returns the number of
// keys removed.
func (r *Redis) Clear(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	cleared, err := r.breaker.Execute(func() (interface{}, error) {
		iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
		pipe := r.client.Pipeline()
		count := 0
		for iter.Next(ctx) {
			pipe.Del(ctx, iter.Val())
			count++
		}
		if err := iter.Err(); err != nil {
			return 0, err
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, err
		}
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	return cleared.(int), nil
}

func (r *Redis) Connected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Ping(ctx).Err()
	})
	return err == nil
}

func (r *Redis) Stats() Stats {
	hits, misses, errs, rate := r.counters.snapshot()
	return Stats{
		Enabled:   true,
		Connected: r.breaker.State() != gobreaker.StateOpen,
		Hits:      hits,
		Misses:    misses,
		Errors:    errs,
		HitRate:   rate,
	}
}

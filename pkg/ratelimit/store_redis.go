package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkAndAddScript performs the sliding-window check and add atomically on
// the Redis side. KEYS[1] is the sorted set, ARGV are cutoff, now (both in
// nanoseconds), the limit and the key TTL in milliseconds. Members are
// scored by request time, so trimming by score expires old requests.
var checkAndAddScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local count = redis.call('ZCARD', KEYS[1])
if count >= tonumber(ARGV[3]) then
  return {0, count}
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {1, count + 1}
`)

// RedisStore is a Store backed by Redis sorted sets. Limits are shared
// across replicas and survive restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
	// ttl bounds how long an idle key lives. It must cover the longest
	// window in any policy using this store.
	ttl time.Duration
}

// NewRedisStore creates a RedisStore. ttl must be at least the longest
// limit window evaluated against this store.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// CheckAndAdd implements Store via a server-side script, so concurrent
// replicas see a consistent count.
func (s *RedisStore) CheckAndAdd(ctx context.Context, key string, now, cutoff time.Time, limit int) (bool, int, error) {
	res, err := checkAndAddScript.Run(ctx, s.client,
		[]string{s.redisKey(key)},
		strconv.FormatInt(cutoff.UnixNano(), 10),
		strconv.FormatInt(now.UnixNano(), 10),
		limit,
		s.ttl.Milliseconds(),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redis check and add: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redis check and add: unexpected reply %v", res)
	}
	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)
	return allowed == 1, int(count), nil
}

// Cleanup is a no-op: the script trims by score on every check and PEXPIRE
// reaps idle keys.
func (s *RedisStore) Cleanup(ctx context.Context, cutoff time.Time) error { return nil }

// KeyCount counts keys under the store prefix with SCAN.
func (s *RedisStore) KeyCount(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis key count: %w", err)
	}
	return count, nil
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + ":" + key
}

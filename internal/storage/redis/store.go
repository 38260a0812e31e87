// Package redis implements the counter store on Redis, for deployments
// running more than one gateway instance behind a balancer.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript atomically increments the window counter and starts the
// window expiry on the first hit. Returns {count, remaining ttl in ms}.
const incrScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`

// Store implements storage.CounterStore using Redis
type Store struct {
	client redis.UniversalClient
	script *redis.Script
	prefix string
}

// NewStore creates a new Redis store
func NewStore(client redis.UniversalClient) *Store {
	return &Store{
		client: client,
		script: redis.NewScript(incrScript),
		prefix: "ratelimit:",
	}
}

// Incr records one request for key within the current window.
func (s *Store) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := time.Now()

	result, err := s.script.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit incr: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit incr: unexpected script result %T", result)
	}

	count, ok := values[0].(int64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("rate limit incr: unexpected count type %T", values[0])
	}

	ttl, ok := values[1].(int64)
	if !ok || ttl < 0 {
		// Key without expiry should not happen; treat as fresh window
		ttl = window.Milliseconds()
	}

	return int(count), now.Add(time.Duration(ttl) * time.Millisecond), nil
}

// Reset removes the counter for the given key
func (s *Store) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

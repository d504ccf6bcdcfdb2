package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rate_limit:"

// checkAndIncr performs the fixed-window check and increment atomically.
// Once the window is at the limit the counter is not incremented further;
// the expiry is set only when the window's first increment creates the
// key. A read-then-write pair in application code would let two
// concurrent attempts both pass just under the limit.
var checkAndIncr = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return -1
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[2])
end
return current
`)

// RedisLimiter counts gate-opening attempts per share token in a fixed
// rolling window. The counter is ephemeral on purpose: losing it fails
// open at the gateway.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether another attempt is permitted for the key. A
// non-nil error means the counter store could not be reached; the caller
// decides what that degrades to.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	seconds := int(l.window.Seconds())
	n, err := checkAndIncr.Run(ctx, l.client, []string{keyPrefix + key}, l.limit, seconds).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}
	return n >= 0, nil
}

// Disabled is the limiter used when no counter store is configured:
// every attempt is allowed.
type Disabled struct{}

func (Disabled) Allow(context.Context, string) (bool, error) {
	return true, nil
}

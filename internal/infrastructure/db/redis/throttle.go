package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginThrottlePrefix = "throttle:login:"

// LoginThrottle counts failed token requests per key over a fixed window.
// Key format: throttle:login:<sha256(key)[:16]>
type LoginThrottle struct {
	client   *redis.Client
	attempts int64
	window   time.Duration
}

// NewLoginThrottle blocks a key once it has attempts failures within window.
// A non-positive attempts value disables throttling.
func NewLoginThrottle(client *redis.Client, attempts int, window time.Duration) *LoginThrottle {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginThrottle{client: client, attempts: int64(attempts), window: window}
}

func (t *LoginThrottle) disabled() bool {
	return t.attempts <= 0 || t.client == nil
}

// Blocked reports whether key has used up its failures for the current window.
func (t *LoginThrottle) Blocked(ctx context.Context, key string) (bool, error) {
	if t.disabled() {
		return false, nil
	}

	n, err := t.client.Get(ctx, throttleKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle: %w", err)
	}
	return n >= t.attempts, nil
}

// Fail records one failed attempt for key. The window starts at the first failure.
func (t *LoginThrottle) Fail(ctx context.Context, key string) error {
	if t.disabled() {
		return nil
	}

	k := throttleKey(key)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login throttle: %w", err)
	}
	return nil
}

func throttleKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return loginThrottlePrefix + hex.EncodeToString(sum[:8])
}

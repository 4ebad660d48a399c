// Package limiters provides Redis fixed-window throttles for the engine's
// failure-prone paths.
package limiters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrLoginRateLimited reports an exhausted attempt window.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrLoginRedisUnavailable wraps transport failures to Redis.
	ErrLoginRedisUnavailable = errors.New("login limiter redis unavailable")
)

// LoginConfig controls the fixed window. Attempts above MaxAttempts within
// Window are rejected; a successful login resets the counters.
type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
	Prefix      string
}

// LoginLimiter throttles login attempts per username and per client IP.
// Counters only grow on failures; the check itself does not consume an
// attempt, so a correct login under a half-full window passes.
type LoginLimiter struct {
	redis redis.UniversalClient
	cfg   LoginConfig
}

// NewLoginLimiter returns a limiter namespaced under cfg.Prefix.
func NewLoginLimiter(redisClient redis.UniversalClient, cfg LoginConfig) *LoginLimiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "ua:login"
	}
	return &LoginLimiter{redis: redisClient, cfg: cfg}
}

// Check reports ErrLoginRateLimited when either window is exhausted.
func (l *LoginLimiter) Check(ctx context.Context, username, ip string) error {
	for _, key := range l.keys(username, ip) {
		count, err := l.redis.Get(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrLoginRedisUnavailable, err)
		}
		if count >= int64(l.cfg.MaxAttempts) {
			return ErrLoginRateLimited
		}
	}
	return nil
}

// RecordFailure increments both windows, starting the TTL on first use.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username, ip string) error {
	for _, key := range l.keys(username, ip) {
		count, err := l.redis.Incr(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLoginRedisUnavailable, err)
		}
		if count == 1 {
			if err := l.redis.Expire(ctx, key, l.cfg.Window).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrLoginRedisUnavailable, err)
			}
		}
	}
	return nil
}

// Reset clears both windows after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username, ip string) error {
	keys := l.keys(username, ip)
	if len(keys) == 0 {
		return nil
	}
	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginRedisUnavailable, err)
	}
	return nil
}

func (l *LoginLimiter) keys(username, ip string) []string {
	keys := make([]string, 0, 2)
	if username != "" {
		keys = append(keys, l.cfg.Prefix+":u:"+username)
	}
	if ip != "" {
		keys = append(keys, l.cfg.Prefix+":ip:"+ip)
	}
	return keys
}

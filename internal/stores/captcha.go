// Package stores holds the Redis-backed ephemeral state of the engine.
// Everything here carries a TTL; nothing is a durable record.
package stores

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCaptchaNotFound covers an absent binding: expired, never issued,
	// or already consumed by an earlier attempt.
	ErrCaptchaNotFound = errors.New("captcha expired or already used")
	// ErrCaptchaMismatch reports a live binding with a wrong submission.
	ErrCaptchaMismatch = errors.New("captcha code mismatch")
	// ErrCaptchaRedisUnavailable wraps transport failures to Redis.
	ErrCaptchaRedisUnavailable = errors.New("captcha redis unavailable")
)

// CaptchaStore binds correlation id -> expected code with a TTL.
//
// Consumption is single-use on any lookup: the binding is removed
// atomically before the comparison, so a failed attempt burns the
// challenge and a replayed correct answer finds nothing. Two concurrent
// Consume calls for one id yield at most one success.
type CaptchaStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewCaptchaStore returns a store using prefix for key namespacing.
func NewCaptchaStore(redisClient redis.UniversalClient, prefix string) *CaptchaStore {
	if prefix == "" {
		prefix = "ua:captcha"
	}
	return &CaptchaStore{redis: redisClient, prefix: prefix}
}

func (s *CaptchaStore) key(id string) string {
	return s.prefix + ":" + id
}

// Save binds id to code for ttl.
func (s *CaptchaStore) Save(ctx context.Context, id, code string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(id), code, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaRedisUnavailable, err)
	}
	return nil
}

// Consume removes the binding for id and compares the submitted code
// case-insensitively. GETDEL makes remove-then-compare a single atomic
// step on the Redis side.
func (s *CaptchaStore) Consume(ctx context.Context, id, submitted string) error {
	stored, err := s.redis.GetDel(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCaptchaNotFound
		}
		return fmt.Errorf("%w: %v", ErrCaptchaRedisUnavailable, err)
	}

	want := []byte(strings.ToLower(stored))
	got := []byte(strings.ToLower(submitted))
	if len(want) != len(got) || subtle.ConstantTimeCompare(want, got) != 1 {
		return ErrCaptchaMismatch
	}
	return nil
}

package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/collabhub/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeChat    = "chat"
	ScopeRequest = "collab_request"
)

func key(subject, scope string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, subject)
}

// CheckAndSetRateLimit claims a cooldown slot for subject in scope. A nil
// client or a non-positive limit always allows.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, subject, scope string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(subject, scope), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, subject, scope string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(subject, scope)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, subject, scope string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, key(subject, scope)).Result()
	return err
}

// Enforce wraps CheckAndSetRateLimit and turns a refusal into
// apperror.ErrRateLimitExceeded carrying the remaining wait.
func Enforce(ctx context.Context, rdb *redis.Client, subject, scope string, limit time.Duration) error {
	allowed, err := CheckAndSetRateLimit(ctx, rdb, subject, scope, limit)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	ttl, _ := GetRateLimitTTL(ctx, rdb, subject, scope)
	return fmt.Errorf("%w: please wait %.0f seconds", apperror.ErrRateLimitExceeded, ttl.Seconds())
}

package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/northbndlabs/gatekeeper/pkg/cryptox"
)

const redisKeyPrefix = "revoked:"

// Redis is a revocation list shared across processes. Each revoked token
// becomes a key expiring at the token's own expiry, so Redis prunes the
// list natively.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Add(ctx context.Context, token string, expiresAt time.Time) error {
	key := redisKeyPrefix + cryptox.FingerprintToken(token)

	ttl := time.Until(expiresAt)
	if expiresAt.IsZero() || ttl <= 0 {
		// No usable expiry; keep the entry indefinitely rather than let a
		// live token slip through.
		ttl = 0
	}
	return r.client.Set(ctx, key, "1", ttl).Err()
}

func (r *Redis) Contains(ctx context.Context, token string) (bool, error) {
	key := redisKeyPrefix + cryptox.FingerprintToken(token)

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping verifies the Redis connection, for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

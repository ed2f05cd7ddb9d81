package auth

import (
	"context"
	"time"

	"codearena/internal/cache"
)

const blacklistKeyPrefix = "blacklist:token:"

// TokenBlacklist records revoked session tokens so they are rejected before
// their natural expiry.
type TokenBlacklist interface {
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// RedisBlacklist stores revocation markers in Redis with a TTL, so entries
// disappear once the underlying token would have expired anyway.
type RedisBlacklist struct {
	cache *cache.Client
}

var _ TokenBlacklist = (*RedisBlacklist)(nil)

// NewRedisBlacklist creates a Redis-backed token blacklist.
func NewRedisBlacklist(cache *cache.Client) *RedisBlacklist {
	return &RedisBlacklist{cache: cache}
}

// Blacklist marks a token as revoked for ttl.
func (b *RedisBlacklist) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	return b.cache.Set(ctx, blacklistKeyPrefix+token, []byte("1"), ttl)
}

// IsBlacklisted reports whether a token has been revoked.
func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	data, err := b.cache.Get(ctx, blacklistKeyPrefix+token)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"codearena/internal/cache"
)

func newTestBlacklist(t *testing.T) (*RedisBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewRedisBlacklist(client), mr
}

func TestRedisBlacklist_RoundTrip(t *testing.T) {
	blacklist, _ := newTestBlacklist(t)
	ctx := context.Background()

	revoked, err := blacklist.IsBlacklisted(ctx, "tokA")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, blacklist.Blacklist(ctx, "tokA", time.Hour))

	revoked, err = blacklist.IsBlacklisted(ctx, "tokA")
	assert.NoError(t, err)
	assert.True(t, revoked)

	// Other tokens are unaffected.
	revoked, err = blacklist.IsBlacklisted(ctx, "tokB")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisBlacklist_EntriesExpire(t *testing.T) {
	blacklist, mr := newTestBlacklist(t)
	ctx := context.Background()

	assert.NoError(t, blacklist.Blacklist(ctx, "tokA", time.Minute))

	mr.FastForward(2 * time.Minute)

	revoked, err := blacklist.IsBlacklisted(ctx, "tokA")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

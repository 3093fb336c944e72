package revocation

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisList(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client), mr
}

func TestRedisAddContains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	list, _ := newRedisList(t)

	ok, err := list.Contains(ctx, "tok")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, list.Add(ctx, "tok", time.Now().Add(time.Hour)))

	ok, err = list.Contains(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisAddIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	list, mr := newRedisList(t)
	exp := time.Now().Add(time.Hour)

	require.NoError(t, list.Add(ctx, "tok", exp))
	require.NoError(t, list.Add(ctx, "tok", exp))

	require.Len(t, mr.Keys(), 1)
}

func TestRedisEntryExpiresWithToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	list, mr := newRedisList(t)

	require.NoError(t, list.Add(ctx, "tok", time.Now().Add(time.Minute)))

	ok, err := list.Contains(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)

	// Once the token's own expiry passes, the entry ages out of Redis.
	mr.FastForward(2 * time.Minute)

	ok, err = list.Contains(ctx, "tok")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoresFingerprintsNotTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	list, mr := newRedisList(t)

	require.NoError(t, list.Add(ctx, "raw-refresh-token", time.Now().Add(time.Hour)))
	for _, key := range mr.Keys() {
		require.NotContains(t, key, "raw-refresh-token")
	}
}

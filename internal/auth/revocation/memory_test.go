package revocation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryAddContains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()

	ok, err := m.Contains(ctx, "some-token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Add(ctx, "some-token", time.Now().Add(time.Hour)))

	ok, err = m.Contains(ctx, "some-token")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Contains(ctx, "another-token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryAddIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, m.Add(ctx, "tok", exp))
	require.NoError(t, m.Add(ctx, "tok", exp))
	require.Equal(t, 1, m.Len())
}

func TestMemoryConcurrentRevokes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, m.Add(ctx, "shared-token", exp))
		}()
	}
	wg.Wait()

	ok, err := m.Contains(ctx, "shared-token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, m.Len())
}

func TestMemoryPrune(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	now := time.Now()

	require.NoError(t, m.Add(ctx, "expired", now.Add(-time.Minute)))
	require.NoError(t, m.Add(ctx, "live", now.Add(time.Hour)))

	require.Equal(t, 1, m.Prune(now))
	require.Equal(t, 1, m.Len())

	// The live entry must survive pruning.
	ok, err := m.Contains(ctx, "live")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Contains(ctx, "expired")
	require.NoError(t, err)
	require.False(t, ok)
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowStore_EmptyWindow(t *testing.T) {
	store := NewWindowStore(newTestClient(t), "ratelimit:")
	ctx := context.Background()

	count, oldest, err := store.Count(ctx, "acct-1:deposit", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, oldest.IsZero())
}

func TestWindowStore_RecordAndCount(t *testing.T) {
	store := NewWindowStore(newTestClient(t), "ratelimit:")
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, "acct-1:deposit", now.Add(time.Duration(i)*time.Second), time.Minute))
	}

	count, oldest, err := store.Count(ctx, "acct-1:deposit", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.WithinDuration(t, now, oldest, 50*time.Millisecond)
}

func TestWindowStore_PrunesOldEntries(t *testing.T) {
	store := NewWindowStore(newTestClient(t), "ratelimit:")
	ctx := context.Background()
	now := time.Now()

	// Two stale entries outside the window, one fresh inside it.
	require.NoError(t, store.Record(ctx, "acct-1:withdraw", now.Add(-3*time.Minute), time.Minute))
	require.NoError(t, store.Record(ctx, "acct-1:withdraw", now.Add(-2*time.Minute), time.Minute))
	require.NoError(t, store.Record(ctx, "acct-1:withdraw", now.Add(-10*time.Second), time.Minute))

	count, oldest, err := store.Count(ctx, "acct-1:withdraw", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.WithinDuration(t, now.Add(-10*time.Second), oldest, 50*time.Millisecond)
}

func TestWindowStore_KeysAreIndependent(t *testing.T) {
	store := NewWindowStore(newTestClient(t), "ratelimit:")
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, "acct-1:deposit", now, time.Minute))
	}

	// Exhausting the deposit window must not count against withdrawals.
	count, _, err := store.Count(ctx, "acct-1:withdraw", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, count)
}

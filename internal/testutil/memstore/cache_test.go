package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	require.NoError(t, c.Set(ctx, "book:detail:1", "a", time.Minute))
	require.NoError(t, c.Set(ctx, "book:detail:2", "b", time.Minute))
	require.NoError(t, c.Set(ctx, "failed_login:alice", 1, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "book:detail:*"))

	assert.False(t, c.Has("book:detail:1"))
	assert.False(t, c.Has("book:detail:2"))
	assert.True(t, c.Has("failed_login:alice"))
}

func TestCache_CounterExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache()
	c.now = func() time.Time { return now }

	n, err := c.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, c.Expire(ctx, "k", time.Minute))

	var got int64
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), got)

	now = now.Add(2 * time.Minute)
	assert.False(t, c.Has("k"))
	n, _ = c.Increment(ctx, "k")
	assert.Equal(t, int64(1), n)
}

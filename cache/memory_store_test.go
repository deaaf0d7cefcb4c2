package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(8)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(8)
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", "v", 60*time.Second))

	now = now.Add(59 * time.Second)
	_, err := s.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)

	require.NoError(t, s.Set(ctx, ListingKey(1, 10, "", 0), "a", time.Minute))
	require.NoError(t, s.Set(ctx, ListingKey(2, 10, "go", 4), "b", time.Minute))
	require.NoError(t, s.Set(ctx, "other:key", "c", time.Minute))
	_, err := s.Incr(ctx, HitsKey)
	require.NoError(t, err)

	n, err := s.DeletePrefix(ctx, ListingPrefix)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.Get(ctx, ListingKey(1, 10, "", 0))
	assert.ErrorIs(t, err, ErrMiss)
	v, err := s.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	hits, err := s.GetInt(ctx, HitsKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits)
}

func TestMemoryStoreCountersSurviveEviction(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	_, err := s.Incr(ctx, MissesKey)
	require.NoError(t, err)
	for _, key := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Set(ctx, key, key, time.Minute))
	}

	n, err := s.GetInt(ctx, MissesKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
}

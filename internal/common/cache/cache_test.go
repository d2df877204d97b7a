package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheService(client), mr
}

func TestCacheService_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got entry
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", entry{Name: "a"}, time.Minute))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "a", got.Name)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", entry{Name: "b"}, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestCacheService_GetOrSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	calls := 0
	setter := func() (interface{}, error) {
		calls++
		return entry{Name: "computed"}, nil
	}

	for i := 0; i < 3; i++ {
		var got entry
		require.NoError(t, c.GetOrSet(ctx, "memo", &got, time.Minute, setter))
		assert.Equal(t, "computed", got.Name)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	var got entry
	err := c.GetOrSet(ctx, "other", &got, time.Minute, func() (interface{}, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

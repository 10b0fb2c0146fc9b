package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T, inner Repository) (*CachedRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCachedRepository(inner, rdb, time.Minute, nil), mr
}

func TestCachedRepositoryReadThrough(t *testing.T) {
	inner := NewMemoryRepository()
	cached, mr := testCache(t, inner)
	ctx := context.Background()

	c := &Campaign{ID: uuid.New(), CampaignName: "Cached", Generated: []byte(`{"campaign_name":"Cached"}`)}
	require.NoError(t, inner.Insert(ctx, c))

	got, err := cached.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.CampaignName)
	assert.True(t, mr.Exists(cacheKey(c.ID)), "campaign not written to cache after miss")

	// Served from cache even when the inner repository loses the row.
	delete(inner.campaigns, c.ID)
	got, err = cached.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.CampaignName)
}

func TestCachedRepositoryInsertWarmsCache(t *testing.T) {
	cached, mr := testCache(t, NewMemoryRepository())

	c := &Campaign{ID: uuid.New(), CampaignName: "Warm"}
	require.NoError(t, cached.Insert(context.Background(), c))
	assert.True(t, mr.Exists(cacheKey(c.ID)), "insert should warm the cache")
}

func TestCachedRepositoryExpiry(t *testing.T) {
	cached, mr := testCache(t, NewMemoryRepository())
	ctx := context.Background()

	c := &Campaign{ID: uuid.New(), CampaignName: "Expiring"}
	require.NoError(t, cached.Insert(ctx, c))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(cacheKey(c.ID)), "cache entry should expire with the TTL")

	// Still served through the inner repository.
	_, err := cached.Get(ctx, c.ID)
	require.NoError(t, err)
}

func TestCachedRepositoryMissPropagatesNotFound(t *testing.T) {
	cached, _ := testCache(t, NewMemoryRepository())
	_, err := cached.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

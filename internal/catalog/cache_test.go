package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/money"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func testProduct() *domain.Product {
	discounted := money.MustParse("10.00")
	return &domain.Product{
		ID:              "tulip",
		Name:            "Tulp boeket",
		Price:           money.MustParse("12.50"),
		DiscountedPrice: &discounted,
		TaxAmount:       money.MustParse("2.10"),
		SubtotalAmount:  money.MustParse("7.90"),
		CreatedAt:       time.Now().UTC(),
	}
}

func TestCacheGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	p := testProduct()

	data, _ := json.Marshal(p)
	mr.Set(cacheKey(p.ID), string(data))

	result, err := cache.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "tulip", result.ID)
	assert.Equal(t, int64(1250), result.Price.Cents())
	require.NotNil(t, result.DiscountedPrice)
	assert.Equal(t, int64(1000), result.DiscountedPrice.Cents())
}

func TestCacheGet_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestCacheGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("broken"), "{not json")

	_, err := cache.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestCacheSet_RoundTrip(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	p := testProduct()

	require.NoError(t, cache.Set(ctx, p))

	result, err := cache.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.True(t, p.TaxAmount.Equal(result.TaxAmount))
	assert.True(t, p.SubtotalAmount.Equal(result.SubtotalAmount))
}

func TestCacheDelete(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	p := testProduct()
	require.NoError(t, cache.Set(ctx, p))
	require.NoError(t, cache.Delete(ctx, p.ID))

	_, err := cache.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

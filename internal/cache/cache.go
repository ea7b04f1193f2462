// Package cache keeps the public catalog listing in Redis. Every catalog
// write drops the cached value; reads fall back to the store on any miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catering_store/internal/metrics"
	"catering_store/internal/model"

	"github.com/redis/go-redis/v9"
)

// ProductListKey is the Redis key holding the serialized catalog listing
const ProductListKey = "catering:products:all"

// ProductCache stores the newest-first catalog listing
type ProductCache interface {
	// GetList reports ok=false on a miss
	GetList(ctx context.Context) (products []model.Product, ok bool, err error)
	SetList(ctx context.Context, products []model.Product) error
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisCache creates a ProductCache on top of a Redis client
func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) ProductCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) GetList(ctx context.Context) ([]model.Product, bool, error) {
	val, err := c.rdb.Get(ctx, ProductListKey).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, false, fmt.Errorf("failed to read product cache: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		metrics.CacheMisses.Inc()
		return nil, false, fmt.Errorf("failed to decode product cache: %w", err)
	}
	metrics.CacheHits.Inc()
	return products, true, nil
}

func (c *redisCache) SetList(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode product cache: %w", err)
	}
	if err := c.rdb.Set(ctx, ProductListKey, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write product cache: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, ProductListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}

type noopCache struct{}

// NewNoop returns a ProductCache that never hits. Used when REDIS_ADDR is empty.
func NewNoop() ProductCache { return noopCache{} }

func (noopCache) GetList(context.Context) ([]model.Product, bool, error) { return nil, false, nil }
func (noopCache) SetList(context.Context, []model.Product) error       { return nil }
func (noopCache) Invalidate(context.Context) error                     { return nil }

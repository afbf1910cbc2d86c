package exchange

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateCache stores fetched rates for a limited time
type RateCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, rate float64, ttl time.Duration) error
}

// RedisRateCache implements RateCache on Redis string keys
type RedisRateCache struct {
	client redis.Cmdable
}

// NewRedisRateCache wraps an existing Redis client
func NewRedisRateCache(client redis.Cmdable) *RedisRateCache {
	return &RedisRateCache{client: client}
}

func (c *RedisRateCache) Get(ctx context.Context, key string) (float64, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get cached rate: %w", err)
	}

	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached rate %q: %w", val, err)
	}
	return rate, true, nil
}

func (c *RedisRateCache) Set(ctx context.Context, key string, rate float64, ttl time.Duration) error {
	value := strconv.FormatFloat(rate, 'g', -1, 64)
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached rate: %w", err)
	}
	return nil
}

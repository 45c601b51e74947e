package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, key string) (*domain.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &product, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	// Jitter spreads expiry so a seeded catalog does not all fall out at once.
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(key), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = cacheKey(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("product:%s", key)
}

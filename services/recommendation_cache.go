package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RecommendationCache interface {
	Get(ctx context.Context, key string) (Recommendation, bool, error)
	Set(ctx context.Context, key string, rec Recommendation, ttl time.Duration) error
}

type RedisRecommendationCache struct {
	client *redis.Client
}

func NewRedisRecommendationCache(client *redis.Client) *RedisRecommendationCache {
	return &RedisRecommendationCache{client: client}
}

// NewRedisRecommendationCacheFromURL parses a redis:// URL and pings it.
func NewRedisRecommendationCacheFromURL(ctx context.Context, url string) (*RedisRecommendationCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisRecommendationCache(client), nil
}

func (c *RedisRecommendationCache) Get(ctx context.Context, key string) (Recommendation, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Recommendation{}, false, nil
	}
	if err != nil {
		return Recommendation{}, false, err
	}
	var rec Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Recommendation{}, false, err
	}
	return rec, true, nil
}

func (c *RedisRecommendationCache) Set(ctx context.Context, key string, rec Recommendation, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *RedisRecommendationCache) Close() error {
	return c.client.Close()
}

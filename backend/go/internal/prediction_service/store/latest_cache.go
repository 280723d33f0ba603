package store

import (
	"KneeHeal/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type setter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisLatestCache 在 Redis 中保存每个用户最近一次的预测, 供看板快速读取。
type RedisLatestCache struct {
	client setter
	ttl    time.Duration
}

// NewRedisLatestCache creates a cache entry writer; a zero ttl keeps the entry forever.
func NewRedisLatestCache(client *redis.Client, ttl time.Duration) *RedisLatestCache {
	return &RedisLatestCache{client: client, ttl: ttl}
}

// LatestKey 返回用户最新预测的缓存键。
func LatestKey(userID string) string {
	return "kneeheal:latest:" + userID
}

func (c *RedisLatestCache) Name() string { return "redis" }

func (c *RedisLatestCache) Record(ctx context.Context, event *models.PredictionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction event: %w", err)
	}
	return c.client.Set(ctx, LatestKey(event.UserID), payload, c.ttl).Err()
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arch-spatula/jmc/config"
	"github.com/arch-spatula/jmc/internal/sheet"
	"github.com/arch-spatula/jmc/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const listKey = "jmc:restaurants"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// ListCache caches the full restaurant list as JSON.
// Redis failures are logged and treated as a cache miss.
type ListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListCache(rdb *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

func (c *ListCache) Get(ctx context.Context) ([]sheet.Record, bool) {
	raw, err := c.rdb.Get(ctx, listKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Restaurant cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	var records []sheet.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn("Restaurant cache entry corrupted", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	return records, true
}

func (c *ListCache) Set(ctx context.Context, records []sheet.Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey, raw, c.ttl).Err(); err != nil {
		logger.Warn("Restaurant cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *ListCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, listKey).Err(); err != nil {
		logger.Warn("Restaurant cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a JSON key-value cache on top of redis. A nil client is a
// valid state: every operation degrades to a miss, so an unreachable redis
// never fails a read path.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects to redis at the given URL. Connection failure is logged and
// the cache continues in disabled (permanent-miss) mode.
func New(redisURL, password string, logger *slog.Logger) *RedisCache {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid redis url, cache disabled", "error", err)
		return &RedisCache{logger: logger}
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without cache", "error", err)
		return &RedisCache{logger: logger}
	}

	logger.Info("Connected to redis")
	return &RedisCache{client: client, logger: logger}
}

// Client exposes the underlying redis client for collaborators that need
// raw access (the notification dispatcher). Nil when the cache is disabled.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// GetJSON attempts to get the key and unmarshal it into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) on a miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with the given TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Del evicts the key.
func (c *RedisCache) Del(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

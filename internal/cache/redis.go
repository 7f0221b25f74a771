package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ContentCache caches repository file contents across context-assembly
// requests. Like the graph index, it is best-effort: a miss or an
// unavailable backend means fetching from the source again, never a
// request failure.
type ContentCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Close() error
}

// NullCache is used when no cache backend is configured
type NullCache struct{}

func (NullCache) Get(context.Context, string) (string, bool) { return "", false }
func (NullCache) Set(context.Context, string, string)        {}
func (NullCache) Close() error                               { return nil }

// RedisCache implements ContentCache over Redis
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies connectivity. Fail fast at
// startup; callers degrade to NullCache on error.
func NewRedisCache(ctx context.Context, host string, port int, password string, logger *logrus.Logger) (*RedisCache, error) {
	if host == "" {
		return nil, fmt.Errorf("redis host missing")
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logger.WithField("addr", addr).Info("redis cache connected")

	return &RedisCache{
		client: client,
		logger: logger,
		ttl:    15 * time.Minute,
	}, nil
}

// Key builds a cache key for a file at a repository ref
func Key(repoID, ref, path string) string {
	return fmt.Sprintf("content:%s@%s:%s", repoID, ref, path)
}

// Get retrieves cached file content. A miss or backend error returns
// found=false.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("cache get failed")
		return "", false
	}
	return val, true
}

// Set stores file content with the default TTL. Failures are logged and
// swallowed.
func (c *RedisCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("cache set failed")
	}
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

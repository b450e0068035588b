package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/service/logger"
)

const keyPrefix = "replywatch:report:"

// RedisReportCache stores rendered report payloads in Redis. Every failure
// is logged and treated as a cache miss so an unavailable Redis never
// breaks report generation.
type RedisReportCache struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisReportCache connects to Redis and verifies the connection
func NewRedisReportCache(redisURL string, log logger.Logger) (*RedisReportCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNoop()
	}

	return &RedisReportCache{client: client, logger: log}, nil
}

// Get returns the cached payload for the key, or a miss on any error
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn(ctx, "report cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return payload, true
}

// Set stores the payload under the key with the given TTL
func (c *RedisReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		c.logger.Warn(ctx, "report cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Close releases the underlying Redis connection
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

var _ ports.ReportCache = (*RedisReportCache)(nil)

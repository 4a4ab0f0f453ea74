package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

var cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosangam",
	Subsystem: "advisor",
	Name:      "cache_lookups_total",
	Help:      "Advice cache lookups by result.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(cacheLookups)
}

// Cache stores generated advice.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache keeps advice in Redis under a key prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache constructs a RedisCache.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// NewRedisClient connects to Redis and verifies the connection. rawURL may be a
// redis:// URL or a bare host:port.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "redis://" + rawURL
	}
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
)

const (
	defaultPrefix = "robotics:enrich:"
	defaultTTL    = 30 * 24 * time.Hour
)

// RedisCache stores successful enrichments as JSON strings keyed by canonical URL.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ ports.EnrichmentCache = (*RedisCache)(nil)

// NewRedisCache connects using a redis:// URL and pings once so a bad address fails at startup.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{rdb: rdb, prefix: defaultPrefix, ttl: ttl}, nil
}

func (c *RedisCache) key(url string) string { return c.prefix + url }

// Get returns the cached enrichment and whether one was present.
func (c *RedisCache) Get(ctx context.Context, url string) (domain.Enrichment, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Enrichment{}, false, nil
	}
	if err != nil {
		return domain.Enrichment{}, false, fmt.Errorf("redis get: %w", err)
	}

	var e domain.Enrichment
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.Enrichment{}, false, fmt.Errorf("decode cached enrichment: %w", err)
	}
	return e, true, nil
}

// Put stores the enrichment with the configured TTL.
func (c *RedisCache) Put(ctx context.Context, url string, enrichment domain.Enrichment) error {
	raw, err := json.Marshal(enrichment)
	if err != nil {
		return fmt.Errorf("encode enrichment: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(url), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error { return c.rdb.Close() }

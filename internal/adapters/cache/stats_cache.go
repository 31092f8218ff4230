package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campuseventhub/internal/domain"
)

// statsKey namespaces the dashboard payload so other consumers of the same
// Redis instance don't collide with it.
const statsKey = "campuseventhub:dashboard:stats"

type redisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStatsCache returns a StatsCache storing the dashboard counters as a
// single JSON value with the given TTL.
func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) domain.StatsCache {
	return &redisStatsCache{rdb: rdb, ttl: ttl}
}

func (c *redisStatsCache) Get(ctx context.Context) (*domain.DashboardStats, bool, error) {
	b, err := c.rdb.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	stats := &domain.DashboardStats{}
	if err := json.Unmarshal(b, stats); err != nil {
		// A corrupt payload counts as a miss; the caller recomputes.
		return nil, false, nil
	}
	return stats, true, nil
}

func (c *redisStatsCache) Set(ctx context.Context, stats *domain.DashboardStats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.rdb.Set(ctx, statsKey, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "medreport/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyDashboard = "dashboard:data"

// DashboardCache caches the dashboard payload in Redis.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDashboardCache returns a new DashboardCache.
func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached dashboard or nil if miss.
func (c *DashboardCache) Get(ctx context.Context) (*dom.Dashboard, error) {
	b, err := c.rdb.Get(ctx, keyDashboard).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d dom.Dashboard
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Set stores the dashboard in cache.
func (c *DashboardCache) Set(ctx context.Context, d dom.Dashboard) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyDashboard, b, c.ttl).Err()
}

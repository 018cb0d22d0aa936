package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nandoportifolio33/cotacao-api/internal/obs"
)

const cacheVersionKey = "catalog:products:ver"

// Cache keeps rendered catalog pages in Redis. Keys carry a version counter
// that every write bumps, so stale pages expire instead of being swept.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the
// key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			countCache("miss")
			return false, nil
		}
		countCache("error")
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	countCache("hit")
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// ListKey builds a versioned key for one catalog page.
func (c *Cache) ListKey(ctx context.Context, p ListParams) string {
	if c == nil || c.client == nil {
		return ""
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return ""
	}
	return fmt.Sprintf("catalog:products:v%d:p%d:l%d:q%s", ver, p.Page, p.Limit, p.Query)
}

// Invalidate bumps the version counter, orphaning every cached page. Orphans
// fall out on their own TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, cacheVersionKey).Err(); err != nil {
		countCache("error")
	}
}

func countCache(result string) {
	if obs.CacheRequestsTotal != nil {
		obs.CacheRequestsTotal.WithLabelValues("catalog", result).Inc()
	}
}

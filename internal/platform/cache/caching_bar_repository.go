// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"history_backend/internal/feature/bars/domain/entity"
	"history_backend/internal/feature/bars/usecase"
)

// CachingBarRepository decorates a BarRepository with Redis caching.
// Entries live until the TTL expires or the ticker is re-ingested and Invalidate is called.
type CachingBarRepository struct {
	inner     usecase.BarRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var (
	_ usecase.BarRepository    = (*CachingBarRepository)(nil)
	_ usecase.CacheInvalidator = (*CachingBarRepository)(nil)
)

// timeRange is the cached form of BarRepository.TimeRange.
type timeRange struct {
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

// NewCachingBarRepository decorates a BarRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "bars".
func NewCachingBarRepository(rdb *redis.Client, ttl time.Duration, inner usecase.BarRepository, namespace string) *CachingBarRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingBarRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Find retrieves bars, checking cache first then falling back to the database.
func (c *CachingBarRepository) Find(ctx context.Context, ticker string, interval entity.Interval) ([]entity.Bar, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, ticker, interval)
	}

	key := c.cacheKey(ticker, "find", string(interval))
	var out []entity.Bar
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.Find(ctx, ticker, interval)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// TimeRange retrieves the first and last bar time, checking cache first.
func (c *CachingBarRepository) TimeRange(ctx context.Context, ticker string) (time.Time, time.Time, error) {
	if c.rdb == nil {
		return c.inner.TimeRange(ctx, ticker)
	}

	key := c.cacheKey(ticker, "range")
	var tr timeRange
	if c.get(ctx, key, &tr) {
		return tr.First, tr.Last, nil
	}

	first, last, err := c.inner.TimeRange(ctx, ticker)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	c.set(ctx, key, timeRange{First: first, Last: last})
	return first, last, nil
}

// Invalidate deletes every cached entry of the ticker.
func (c *CachingBarRepository) Invalidate(ctx context.Context, ticker string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(ticker)+"*")
}

// get decodes the cached value into dst. Corrupted entries are deleted and reported as a miss.
func (c *CachingBarRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err == nil {
		return true
	}
	// Delete corrupted cache entry
	_ = c.rdb.Del(ctx, key).Err()
	return false
}

// set stores the value (best effort).
func (c *CachingBarRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// cacheKey generates a cache key for a specific query.
func (c *CachingBarRepository) cacheKey(ticker string, parts ...string) string {
	key := c.cacheKeyPrefix(ticker)
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += safe(p)
	}
	return key
}

// cacheKeyPrefix generates a prefix shared by every entry of the ticker.
func (c *CachingBarRepository) cacheKeyPrefix(ticker string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(ticker))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingBarRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

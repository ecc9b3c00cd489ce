package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// ResultCache implements domain.ResultCache with JSON-serialized scan
// results under plain string keys.
//
// Key schema:
//
//	scan:{key} - JSON-encoded domain.ScanResult
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultCache creates a ResultCache with the given TTL per entry.
func NewResultCache(c *Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{rdb: c.Underlying(), ttl: ttl}
}

func scanKey(key string) string { return "scan:" + key }

// Set stores a scan result under the query key.
func (rc *ResultCache) Set(ctx context.Context, key string, result domain.ScanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis: marshal scan result %s: %w", key, err)
	}
	if err := rc.rdb.Set(ctx, scanKey(key), data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set scan result %s: %w", key, err)
	}
	return nil
}

// Get retrieves a cached scan result. It returns domain.ErrNotFound when the
// key does not exist or has expired.
func (rc *ResultCache) Get(ctx context.Context, key string) (domain.ScanResult, error) {
	data, err := rc.rdb.Get(ctx, scanKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ScanResult{}, domain.ErrNotFound
		}
		return domain.ScanResult{}, fmt.Errorf("redis: get scan result %s: %w", key, err)
	}

	var result domain.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.ScanResult{}, fmt.Errorf("redis: unmarshal scan result %s: %w", key, err)
	}
	return result, nil
}

// Invalidate removes a cached scan result.
func (rc *ResultCache) Invalidate(ctx context.Context, key string) error {
	if err := rc.rdb.Del(ctx, scanKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate scan result %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)

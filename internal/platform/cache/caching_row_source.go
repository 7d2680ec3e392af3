// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"finance_backend/internal/feature/report/usecase"
)

// CachingRowSource decorates a report RowSource with Redis caching. It
// implements the decorator pattern, transparently adding caching without
// modifying the underlying source. It doubles as the ReportInvalidator
// the ledger usecases call after a mutation.
type CachingRowSource struct {
	inner     usecase.RowSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRowSource decorates a RowSource with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "reports". A nil rdb disables caching entirely.
func NewCachingRowSource(rdb *redis.Client, ttl time.Duration, inner usecase.RowSource, namespace string) *CachingRowSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "reports"
	}
	return &CachingRowSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

var _ usecase.RowSource = (*CachingRowSource)(nil)

// Rows retrieves report rows, checking cache first then falling back to
// the database.
func (c *CachingRowSource) Rows(ctx context.Context, userID uint, start, end *time.Time) ([]usecase.Row, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Rows(ctx, userID, start, end)
	}

	key := c.cacheKey(userID, start, end)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []usecase.Row
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Rows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// InvalidateUser drops every cached window for the user. Best effort: a
// cache miss after a failed invalidation only costs a recomputation
// within the TTL.
func (c *CachingRowSource) InvalidateUser(ctx context.Context, userID uint) {
	if c.rdb == nil {
		return
	}
	pattern := fmt.Sprintf("%s:%d:*", c.namespace, userID)
	if err := c.deleteByPattern(ctx, pattern); err != nil {
		slog.Warn("report cache invalidation failed", "error", err, "user_id", userID)
	}
}

// cacheKey generates a cache key for a specific query window.
func (c *CachingRowSource) cacheKey(userID uint, start, end *time.Time) string {
	return fmt.Sprintf("%s:%d:%s:%s", c.namespace, userID, bound(start), bound(end))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRowSource) deleteByPattern(ctx context.Context, pattern string) error {
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

// bound encodes one end of a window into a key segment. Open ends become
// a dash so distinct windows never collide.
func bound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("20060102T150405")
}

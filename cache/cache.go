// Package cache provides a small Redis-backed cache for computed
// history summaries, so repeated analytics requests over the same
// filter window skip the recomputation. The cache is best effort:
// every failure degrades to a recompute.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SummaryTTL bounds how stale a cached aggregate may get.
const SummaryTTL = 5 * time.Minute

// Cache wraps a Redis client. A nil *Cache is valid and disables
// caching; all methods become no-ops.
type Cache struct {
	client *redis.Client
}

// New connects to addr. An empty addr returns nil (caching disabled).
func New(addr string) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})
	return &Cache{client: client}
}

// FetchSummary unmarshals the cached aggregate for key into out,
// reporting whether a usable entry was found.
func (c *Cache) FetchSummary(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("summary cache fetch failed")
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return false
	}
	return true
}

// StoreSummary caches v under key for ttl.
func (c *Cache) StoreSummary(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("summary cache store failed")
	}
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() {
	if c != nil {
		c.client.Close()
	}
}

// Package cache holds the Redis-backed catalog list cache. Every catalog
// mutation bumps a version counter, which is part of every cache key, so
// invalidation never has to enumerate keys.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	verKey = "catalog:ver"
	ttl    = 10 * time.Minute
)

// Catalog caches rendered catalog pages keyed by the query signature.
// A nil *Catalog or nil client disables caching entirely, so callers never
// need to branch on configuration.
type Catalog struct {
	rdb *redis.Client
}

func NewCatalog(rdb *redis.Client) *Catalog {
	if rdb == nil {
		return nil
	}
	return &Catalog{rdb: rdb}
}

func (c *Catalog) key(ctx context.Context, sig string) string {
	ver, err := c.rdb.Get(ctx, verKey).Result()
	if err != nil {
		ver = "0"
	}
	return "catalog:" + ver + ":" + sig
}

// Get returns the cached page body for the query signature, or ok=false on
// miss or any Redis failure. Cache errors are never surfaced; the caller
// falls through to the database.
func (c *Catalog) Get(ctx context.Context, sig string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, c.key(ctx, sig)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *Catalog) Put(ctx context.Context, sig string, body []byte) {
	if c == nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(ctx, sig), body, ttl).Err()
}

// Bump invalidates all cached pages by advancing the version counter.
// Called on product create/update/delete and on order placement (stock
// changed).
func (c *Catalog) Bump(ctx context.Context) {
	if c == nil {
		return
	}
	_ = c.rdb.Incr(ctx, verKey).Err()
}

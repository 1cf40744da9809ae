// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen checks candidate names and logo images against domain,
// trademark, and web-search sources, merging unreliable signals into one
// availability verdict per candidate.
package screen

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/brand-engine/pkg/types"
)

// DefaultCacheTTL is the validity window for cached screening results.
const DefaultCacheTTL = 10 * time.Minute

// Cache stores aggregate screening results per normalized candidate value.
// Expiry is checked on read; no eviction goroutine runs. Concurrent reads
// and writes are safe per key, which is all the screening fan-out needs.
type Cache struct {
	c *gocache.Cache
}

// NewCache builds a cache with the given TTL (DefaultCacheTTL when zero).
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	// Cleanup interval 0: entries expire logically on read only.
	return &Cache{c: gocache.New(ttl, 0)}
}

// Get returns the cached result for key, if present and unexpired.
func (c *Cache) Get(key string) (*types.ScreeningResult, bool) {
	v, ok := c.c.Get(cacheKey(key))
	if !ok {
		return nil, false
	}
	result, ok := v.(*types.ScreeningResult)
	return result, ok
}

// Set stores the result for key under the cache's default TTL.
func (c *Cache) Set(key string, result *types.ScreeningResult) {
	c.c.SetDefault(cacheKey(key), result)
}

// cacheKey normalizes a candidate value for cache lookup.
func cacheKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// entry holds a cached value and the time it was stored.
type entry struct {
	value    any
	storedAt time.Time
}

// ResultCache is a TTL cache for query and vector search results keyed by
// the md5 of the request text. Expired entries are recomputed on access;
// Sweep removes them eagerly. A disabled cache always computes.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	enabled bool
	logger  *slog.Logger
}

// New creates a ResultCache with the given TTL. A non-positive TTL or
// enabled=false yields a cache that never serves stored results.
func New(ttl time.Duration, enabled bool, logger *slog.Logger) *ResultCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		enabled = false
	}
	return &ResultCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		enabled: enabled,
		logger:  logger,
	}
}

// Key returns the cache key for a request text.
func Key(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// VectorKey returns the cache key for a vector search request. The index
// name and result count are part of the identity: the same text against a
// different index or top_k is a different search.
func VectorKey(text, index string, topK int) string {
	return Key(strings.Join([]string{text, index, fmt.Sprintf("%d", topK)}, "|"))
}

// GetOrCompute returns the cached value for key if present and fresh,
// otherwise calls compute and stores its result. A failed compute stores
// nothing, so the next call retries.
func (c *ResultCache) GetOrCompute(key string, compute func() (any, error)) (any, bool, error) {
	if c.enabled {
		c.mu.Lock()
		e, ok := c.entries[key]
		if ok && time.Since(e.storedAt) < c.ttl {
			c.mu.Unlock()
			c.logger.Debug("cache hit", "key", key)
			return e.value, true, nil
		}
		if ok {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	value, err := compute()
	if err != nil {
		return nil, false, err
	}

	if c.enabled {
		c.mu.Lock()
		c.entries[key] = entry{value: value, storedAt: time.Now()}
		c.mu.Unlock()
	}
	return value, false, nil
}

// Get returns the cached value for key if present and fresh.
func (c *ResultCache) Get(key string) (any, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores a value under key.
func (c *ResultCache) Put(key string, value any) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: time.Now()}
}

// Sweep removes expired entries and returns how many were removed.
func (c *ResultCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if time.Since(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("swept expired cache entries", "removed", removed)
	}
	return removed
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of stored entries, including any not yet swept.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Package cache holds recently rendered reports so repeat analyses of the
// same URL can skip the browser round trip. Only the final rendered text is
// cached — snapshots are never shared between requests.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Report is the cacheable outcome of one capability invocation.
type Report struct {
	// Text is the rendered report or extracted content.
	Text string

	// Title is the page title (content capability only).
	Title string

	// FinalURL is the URL after redirects.
	FinalURL string

	// TokenEstimate is the token estimate (content capability only).
	TokenEstimate int
}

// entry holds a cached report with its creation timestamp.
type entry struct {
	report    Report
	createdAt time.Time
}

// Cache is a simple in-memory TTL cache. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older
// than 1 hour.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the URL, the capability name, and a
// capability-specific variant (format, selector, option flags).
func Key(url, capability, variant string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(capability))
	h.Write([]byte("|"))
	h.Write([]byte(variant))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached report if it exists and is younger than maxAge.
// maxAge is in milliseconds. If maxAge <= 0, no cache lookup is performed.
// Returns the report and whether it was a cache hit.
func (c *Cache) Get(key string, maxAgeMs int) (Report, bool) {
	if maxAgeMs <= 0 {
		return Report{}, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return Report{}, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if time.Since(e.createdAt) > maxAge {
		return Report{}, false
	}

	return e.report, true
}

// Set stores a report in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key string, report Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		report:    report,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}

package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/tripparse/internal/model"
)

// MemoryCache implements in-memory record caching with expiry
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache. A zero TTL never expires entries.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a copy of a record from the cache
func (c *MemoryCache) Get(key string) (*model.ExtractedRecord, bool) {
	if val, found := c.cache.Get(key); found {
		return Clone(val.(*model.ExtractedRecord)), true
	}
	return nil, false
}

// Set stores a copy of the record with the default TTL
func (c *MemoryCache) Set(key string, rec *model.ExtractedRecord) {
	c.cache.SetDefault(key, Clone(rec))
}

// Len returns the number of cached records, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

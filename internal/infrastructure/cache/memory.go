package cache

import (
	"context"
	"sync"

	"github.com/drinkbook/client/internal/domain"
)

// Compile-time interface check.
var _ domain.CacheRepository = (*MemoryCache)(nil)

// MemoryCache is a thread-safe in-memory cache. Entries live for the
// lifetime of the process; there is no expiry and no eviction.
//
// Values are stored as given, so a Get returns the exact value that was
// Set (slices keep their backing array).
type MemoryCache struct {
	data  map[string]interface{}
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]interface{}),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	value, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

// Set stores a value in the cache, replacing any previous value for key
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = value
	return nil
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

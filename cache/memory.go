package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in process map with per entry expiry.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache keeps entries for ttl and sweeps expired ones every cleanup. A zero ttl
// keeps entries until the process exits.
func NewMemoryCache(ttl, cleanup time.Duration) *MemoryCache {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryCache{cache: gocache.New(ttl, cleanup)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return value.([]byte), true
}

func (c *MemoryCache) Set(key string, value []byte) {
	c.cache.SetDefault(key, value)
}

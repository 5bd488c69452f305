package cache

import (
	"time"

	"github.com/coocood/freecache"
	"github.com/golang/glog"
	"github.com/golang/snappy"
)

// Freecache holds snappy compressed values in a fixed size arena, evicting the least
// recently used entries once it is full.
type Freecache struct {
	lru        *freecache.Cache
	ttlSeconds int
}

func NewFreecache(size int, ttl time.Duration) *Freecache {
	return &Freecache{
		lru:        freecache.NewCache(size),
		ttlSeconds: int(ttl / time.Second),
	}
}

func (c *Freecache) Get(key string) ([]byte, bool) {
	b, err := c.lru.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	value, err := snappy.Decode(nil, b)
	if err != nil {
		glog.Errorf("dropping corrupt cache entry for %q: %v", key, err)
		c.lru.Del([]byte(key))
		return nil, false
	}
	return value, true
}

// Set stores value unless it is larger than the arena allows for one entry.
func (c *Freecache) Set(key string, value []byte) {
	if err := c.lru.Set([]byte(key), snappy.Encode(nil, value), c.ttlSeconds); err != nil {
		glog.Warningf("not caching decode result for %q: %v", key, err)
	}
}

func (c *Freecache) EntryCount() int64 {
	return c.lru.EntryCount()
}

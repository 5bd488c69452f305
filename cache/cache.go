// Package cache keeps rendered decode results keyed by the GPP string they were decoded
// from, so a batch over repetitive input decodes each distinct string once.
package cache

import (
	"time"

	"github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/metrics"
)

type Cache interface {
	// Get returns the value stored under key. The returned slice must not be modified.
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// New builds the cache selected by cfg.Type. Every lookup is reported to engine as a hit or
// a miss.
func New(cfg config.Cache, engine metrics.MetricsEngine) Cache {
	var c Cache
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	switch cfg.Type {
	case config.CacheTypeMemory:
		c = NewMemoryCache(ttl, time.Duration(cfg.CleanupSeconds)*time.Second)
	case config.CacheTypeFreecache:
		c = NewFreecache(cfg.SizeBytes, ttl)
	default:
		c = NewDummyCache()
	}
	if engine == nil {
		return c
	}
	return &instrumented{Cache: c, metrics: engine}
}

type instrumented struct {
	Cache
	metrics metrics.MetricsEngine
}

func (c *instrumented) Get(key string) ([]byte, bool) {
	value, ok := c.Cache.Get(key)
	if ok {
		c.metrics.RecordSnapshotCache(metrics.CacheHit)
	} else {
		c.metrics.RecordSnapshotCache(metrics.CacheMiss)
	}
	return value, ok
}

package cache

import (
	"bytes"
	"testing"
	"time"

	"github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/metrics"
	"github.com/stretchr/testify/assert"
)

func TestNewSelectsBackend(t *testing.T) {
	testCases := []struct {
		description string
		cfg         config.Cache
		expected    Cache
	}{
		{
			description: "none",
			cfg:         config.Cache{Type: config.CacheTypeNone},
			expected:    &DummyCache{},
		},
		{
			description: "memory",
			cfg:         config.Cache{Type: config.CacheTypeMemory, TTLSeconds: 60, CleanupSeconds: 60},
			expected:    &MemoryCache{},
		},
		{
			description: "freecache",
			cfg:         config.Cache{Type: config.CacheTypeFreecache, SizeBytes: 1024 * 1024},
			expected:    &Freecache{},
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			c := New(test.cfg, nil)
			assert.IsType(t, test.expected, c)
		})
	}
}

func TestBackendsStoreValues(t *testing.T) {
	backends := map[string]Cache{
		"memory":    NewMemoryCache(time.Minute, time.Minute),
		"freecache": NewFreecache(1024*1024, time.Minute),
	}
	value := []byte(`{"uspv1":{"Version":1,"Notice":"Y","OptOutSale":"N","LspaCovered":"N"}}`)

	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			_, ok := c.Get("DBABTA~1YNN")
			assert.False(t, ok)

			c.Set("DBABTA~1YNN", value)
			actual, ok := c.Get("DBABTA~1YNN")
			assert.True(t, ok)
			assert.Equal(t, value, actual)

			_, ok = c.Get("DBAA")
			assert.False(t, ok)
		})
	}
}

func TestDummyCacheNeverHits(t *testing.T) {
	c := NewDummyCache()
	c.Set("DBAA", []byte("{}"))
	_, ok := c.Get("DBAA")
	assert.False(t, ok)
}

func TestMemoryCacheExpires(t *testing.T) {
	c := NewMemoryCache(time.Millisecond, time.Hour)
	c.Set("DBAA", []byte("{}"))
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("DBAA")
	assert.False(t, ok)
}

func TestFreecacheCompresses(t *testing.T) {
	c := NewFreecache(1024*1024, 0)
	value := bytes.Repeat([]byte("AAAA"), 1024)
	c.Set("key", value)

	stored, err := c.lru.Get([]byte("key"))
	assert.NoError(t, err)
	assert.Less(t, len(stored), len(value))
	assert.Equal(t, int64(1), c.EntryCount())
}

func TestFreecacheDropsCorruptEntries(t *testing.T) {
	c := NewFreecache(1024*1024, 0)
	assert.NoError(t, c.lru.Set([]byte("key"), []byte{0xff, 0xff, 0xff}, 0))

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.EntryCount())
}

func TestInstrumentedRecordsHitsAndMisses(t *testing.T) {
	engine := &metrics.MetricsEngineMock{}
	engine.On("RecordSnapshotCache", metrics.CacheMiss).Once()
	engine.On("RecordSnapshotCache", metrics.CacheHit).Twice()

	c := New(config.Cache{Type: config.CacheTypeMemory}, engine)
	c.Get("DBAA")
	c.Set("DBAA", []byte("{}"))
	c.Get("DBAA")
	c.Get("DBAA")

	engine.AssertExpectations(t)
}

package cache

// DummyCache stores nothing. It backs the "none" cache type.
type DummyCache struct {
}

// NewDummyCache create new cache
func NewDummyCache() *DummyCache {

	return &DummyCache{}
}

// Get always misses
func (c *DummyCache) Get(key string) ([]byte, bool) {
	return nil, false
}

// Set nop
func (c *DummyCache) Set(key string, value []byte) {
}

// Package cache holds compile results in a byte-bounded LRU and persists
// them through pluggable stores.
package cache

import (
	"math"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultMaxBytes is the default budget of a Cache.
const DefaultMaxBytes = 10 * 1024 * 1024

type sized[V any] struct {
	value V
	size  int
}

// Cache is a threadsafe LRU bounded by the total size of its entries rather
// than their count. Sizes are supplied by the caller on Add.
type Cache[V any] struct {
	mu         sync.Mutex
	lru        *simplelru.LRU[string, sized[V]]
	maxBytes   int
	totalBytes int
}

// New creates a cache holding at most maxBytes. A non-positive budget
// means DefaultMaxBytes.
func New[V any](maxBytes int) *Cache[V] {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	c := &Cache[V]{maxBytes: maxBytes}
	// The entry count is not a limit; only the byte budget evicts.
	lru, err := simplelru.NewLRU[string, sized[V]](math.MaxInt32, func(_ string, v sized[V]) {
		c.totalBytes -= v.size
	})
	if err != nil {
		panic(err)
	}
	c.lru = lru
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	return v.value, ok
}

// Add stores value under key and evicts least recently used entries until
// the total size fits the budget again. An entry larger than the whole
// budget is evicted immediately.
func (c *Cache[V]) Add(key string, value V, size int) {
	if size < 0 {
		size = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.lru.Peek(key); ok {
		c.totalBytes -= old.size
	}
	c.lru.Add(key, sized[V]{value: value, size: size})
	c.totalBytes += size

	for c.totalBytes > c.maxBytes && c.lru.Len() > 0 {
		c.lru.RemoveOldest()
	}
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Bytes returns the summed size of all entries.
func (c *Cache[V]) Bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}

package util

import (
	"fmt"
)

// Cache is an in-memory memo table. It is not safe for concurrent use, give
// each goroutine its own.
type Cache[K comparable, V any] struct {
	m            map[K]V
	hits, misses int
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{m: map[K]V{}}
}

// Get returns the cached value for k, computing and storing it with f on a
// miss. Errors are returned as is and not cached.
func (c *Cache[K, V]) Get(k K, f func() (V, error)) (V, error) {
	if v, ok := c.Lookup(k); ok {
		return v, nil
	}
	v, err := f()
	if err != nil {
		return v, fmt.Errorf("cache %v: %w", k, err)
	}
	c.Set(k, v)
	return v, nil
}

// Lookup is Peek but counts towards the hit/miss statistics.
func (c *Cache[K, V]) Lookup(k K) (V, bool) {
	v, ok := c.Peek(k)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

func (c *Cache[K, V]) Peek(k K) (V, bool) {
	v, ok := c.m[k]
	return v, ok
}

func (c *Cache[K, V]) Set(k K, v V) {
	if c.m == nil {
		c.m = map[K]V{}
	}
	c.m[k] = v
}

func (c *Cache[K, V]) Len() int { return len(c.m) }

func (c *Cache[K, V]) Clear() {
	clear(c.m)
	c.hits, c.misses = 0, 0
}

func (c *Cache[K, V]) Hits() int   { return c.hits }
func (c *Cache[K, V]) Misses() int { return c.misses }

package render

// DefaultCacheSize is the number of scaled backgrounds kept in memory.
const DefaultCacheSize = 3

// Cache is a bounded map that evicts the oldest inserted entry when full.
// It is not safe for concurrent use; the renderer owns it.
type Cache[K comparable, V any] struct {
	capacity int
	order    []K
	items    map[K]V
	onEvict  func(K, V)
}

// NewCache creates a cache holding at most capacity entries. onEvict, if
// non-nil, is called with every evicted entry.
func NewCache[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]V, capacity),
		onEvict:  onEvict,
	}
}

// Get returns the value stored for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.items[key]
	return v, ok
}

// Put stores value under key. Replacing an existing key keeps its age.
func (c *Cache[K, V]) Put(key K, value V) {
	if _, ok := c.items[key]; ok {
		c.items[key] = value
		return
	}
	c.items[key] = value
	c.order = append(c.order, key)

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		v := c.items[oldest]
		delete(c.items, oldest)
		if c.onEvict != nil {
			c.onEvict(oldest, v)
		}
	}
}

// GetOrCreate returns the cached value for key, building and storing it
// with create on a miss.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := c.items[key]; ok {
		return v
	}
	v := create()
	c.Put(key, v)
	return v
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return len(c.items)
}

// Keys returns the cached keys from oldest to newest.
func (c *Cache[K, V]) Keys() []K {
	return append([]K(nil), c.order...)
}

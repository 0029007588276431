package retrieval

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// QueryCache memoizes search results by CacheKey.
type QueryCache interface {
	Get(key string) ([]Chunk, bool)
	Set(key string, chunks []Chunk)
}

// FIFOCache expires entries after a TTL and evicts the oldest insertion once
// capacity is reached.
type FIFOCache struct {
	mu       sync.Mutex
	items    *cache.Cache
	order    []string
	capacity int
}

func NewFIFOCache(ttl time.Duration, capacity int) *FIFOCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &FIFOCache{
		items:    cache.New(ttl, 2*ttl),
		capacity: capacity,
	}
}

func (c *FIFOCache) Get(key string) ([]Chunk, bool) {
	if x, found := c.items.Get(key); found {
		return x.([]Chunk), true
	}
	return nil, false
}

func (c *FIFOCache) Set(key string, chunks []Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	if _, found := c.items.Get(key); !found {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			c.items.Delete(oldest)
		}
		c.order = append(c.order, key)
	}
	c.items.Set(key, chunks, cache.DefaultExpiration)
}

// Len reports the number of tracked entries.
func (c *FIFOCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	return len(c.order)
}

// prune drops keys whose entries already expired. Caller holds mu.
func (c *FIFOCache) prune() {
	live := c.order[:0]
	for _, k := range c.order {
		if _, found := c.items.Get(k); found {
			live = append(live, k)
		}
	}
	c.order = live
}

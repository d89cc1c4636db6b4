package execution

import (
	"sync"

	"forex-agent/internal/types"
)

// resultCache is a bounded idempotency cache with FIFO eviction. FIFO, not
// LRU: idempotency protection for very old keys is low value once thousands
// of newer trades have occurred.
type resultCache struct {
	mu      sync.Mutex
	max     int
	order   []string
	results map[string]types.OrderResult
}

func newResultCache(max int) *resultCache {
	return &resultCache{
		max:     max,
		results: make(map[string]types.OrderResult, max),
	}
}

func (c *resultCache) get(key string) (types.OrderResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	return r, ok
}

func (c *resultCache) put(key string, result types.OrderResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[key]; !exists {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.results, oldest)
		}
		c.order = append(c.order, key)
	}
	c.results[key] = result
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

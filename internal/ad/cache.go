// package ad contains the advertisement side of the broadcast protocol: the
// gateway's last known ad cache and the handlers reacting to ad requests and
// replies.
package ad

import "sync"

// Cache holds the most recently received ad payload. It is a single shared
// slot: the broadcast reply handler is its only writer and every page
// render reads it. Last write wins and nothing is scoped per visitor.
type Cache struct {
	mu      sync.RWMutex
	payload string
}

// NewCache creates a new empty ad cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached ad payload or an empty string if no reply has
// been received yet.
func (c *Cache) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.payload
}

// Set replaces the cached ad payload.
func (c *Cache) Set(payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.payload = payload
}

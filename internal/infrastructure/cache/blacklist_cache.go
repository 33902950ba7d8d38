// Package cache provides the in-memory revocation cache fronting the
// session store's blacklist check.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	// DefaultMaxSize bounds the number of cached tokens.
	DefaultMaxSize = 10000
	// DefaultTTL bounds how long a cached verdict is trusted before the
	// durable store must be consulted again.
	DefaultTTL = 5 * time.Minute
)

type entry struct {
	token         string
	isBlacklisted bool
	insertedAt    time.Time
}

// BlacklistCache is a thread-safe, bounded, TTL-based cache mapping a token
// to its revocation verdict. Eviction is access-order LRU. The cache is a
// pure cache-aside layer: contents are volatile and rebuilt lazily from the
// session repository on miss.
type BlacklistCache struct {
	mu       sync.Mutex
	maxSize  int
	ttl      time.Duration
	items    map[string]*list.Element
	eviction *list.List
	now      func() time.Time
	onEvict  func(token string)
}

// NewBlacklistCache creates a cache with the given bounds. Non-positive
// arguments fall back to the defaults.
func NewBlacklistCache(maxSize int, ttl time.Duration) *BlacklistCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BlacklistCache{
		maxSize:  maxSize,
		ttl:      ttl,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		now:      time.Now,
	}
}

// OnEvict registers a callback invoked whenever an entry is dropped for
// capacity or staleness. Explicit Remove and Clear do not count.
func (c *BlacklistCache) OnEvict(fn func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the cached verdict for a token. A hit older than the TTL is
// evicted eagerly and reported as a miss, forcing a read-through.
func (c *BlacklistCache) Get(token string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[token]
	if !ok {
		return false, false
	}

	e := elem.Value.(*entry)
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.evictElement(elem)
		return false, false
	}

	c.eviction.MoveToFront(elem)
	return e.isBlacklisted, true
}

// Put records a verdict for a token. At capacity the least-recently-used
// entry is evicted first.
func (c *BlacklistCache) Put(token string, isBlacklisted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[token]; ok {
		e := elem.Value.(*entry)
		e.isBlacklisted = isBlacklisted
		e.insertedAt = c.now()
		c.eviction.MoveToFront(elem)
		return
	}

	if c.eviction.Len() >= c.maxSize {
		if oldest := c.eviction.Back(); oldest != nil {
			c.evictElement(oldest)
		}
	}

	elem := c.eviction.PushFront(&entry{token: token, isBlacklisted: isBlacklisted, insertedAt: c.now()})
	c.items[token] = elem
}

// Remove drops a token from the cache, forcing the next lookup through to
// the durable store.
func (c *BlacklistCache) Remove(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[token]; ok {
		c.removeElement(elem)
	}
}

// Clear drops all cached verdicts.
func (c *BlacklistCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
}

// Len returns the number of cached tokens.
func (c *BlacklistCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Must be called with the lock held.
func (c *BlacklistCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*entry).token)
}

// Must be called with the lock held.
func (c *BlacklistCache) evictElement(elem *list.Element) {
	token := elem.Value.(*entry).token
	c.removeElement(elem)
	if c.onEvict != nil {
		c.onEvict(token)
	}
}

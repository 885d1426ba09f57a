// Package cache provides an LRU cache for identifier validation outcomes.
// Validation is pure, so entries never go stale; eviction only bounds memory
// when callers validate large, churning id sets.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/undead2146/genhub-core/internal/domain"
)

// node represents a node in the doubly-linked list
type node struct {
	key   string
	value *domain.ValidationOutcome
	prev  *node
	next  *node
}

// LRUCache implements the domain.ValidationCache interface using LRU eviction
type LRUCache struct {
	maxSize int
	size    int

	// Doubly-linked list for LRU ordering
	head *node
	tail *node

	// HashMap for O(1) lookups
	cache map[string]*node

	// Thread safety
	mutex sync.RWMutex

	// Atomic counters for metrics
	hits   int64
	misses int64
}

// NewLRUCache creates a new LRU cache with the specified maximum size
func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 10000
	}

	// Dummy head and tail nodes keep list manipulation branch-free
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.prev = head

	return &LRUCache{
		maxSize: maxSize,
		head:    head,
		tail:    tail,
		cache:   make(map[string]*node),
	}
}

// Get retrieves a cached outcome and marks it as recently used
func (c *LRUCache) Get(key string) (*domain.ValidationOutcome, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	foundNode, exists := c.cache[key]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	c.moveToFront(foundNode)
	atomic.AddInt64(&c.hits, 1)

	// Copy so callers never share the cached object
	outcome := *foundNode.value
	outcome.CacheHit = true
	outcome.Timestamp = time.Now()
	return &outcome, true
}

// Set adds or updates a cached outcome
func (c *LRUCache) Set(key string, outcome *domain.ValidationOutcome) {
	if outcome == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	stored := *outcome
	if existing, exists := c.cache[key]; exists {
		existing.value = &stored
		c.moveToFront(existing)
		return
	}

	newNode := &node{key: key, value: &stored}
	c.addToFront(newNode)
	c.cache[key] = newNode
	c.size++

	if c.size > c.maxSize {
		c.evictLRU()
	}
}

// Invalidate removes a specific key from the cache
func (c *LRUCache) Invalidate(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if node, exists := c.cache[key]; exists {
		c.removeNode(node)
		delete(c.cache, key)
		c.size--
	}
}

// Clear removes all entries from the cache
func (c *LRUCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.head.next = c.tail
	c.tail.prev = c.head
	c.cache = make(map[string]*node)
	c.size = 0

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Stats returns current cache statistics
func (c *LRUCache) Stats() domain.CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses

	var hitRatio float64
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return domain.CacheStats{
		Hits:     hits,
		Misses:   misses,
		Size:     c.size,
		MaxSize:  c.maxSize,
		HitRatio: hitRatio,
	}
}

// HealthCheck performs a health check on the cache
func (c *LRUCache) HealthCheck(ctx context.Context) domain.HealthStatus {
	stats := c.Stats()

	status := domain.HealthStatusHealthy
	message := "Cache is operating normally"
	details := map[string]any{
		"size":      stats.Size,
		"max_size":  stats.MaxSize,
		"hit_ratio": stats.HitRatio,
		"hits":      stats.Hits,
		"misses":    stats.Misses,
	}

	if stats.Size >= int(float64(stats.MaxSize)*0.9) {
		status = domain.HealthStatusDegraded
		message = "Cache is near capacity"
		details["warning"] = "Cache utilization above 90%"
	}

	return domain.HealthStatus{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// moveToFront moves a node to the front of the list (most recently used)
func (c *LRUCache) moveToFront(node *node) {
	c.removeNode(node)
	c.addToFront(node)
}

// addToFront adds a node to the front of the list
func (c *LRUCache) addToFront(node *node) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

// removeNode removes a node from the list
func (c *LRUCache) removeNode(node *node) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

// evictLRU removes the least recently used item from the cache
func (c *LRUCache) evictLRU() {
	if c.tail.prev == c.head {
		return
	}

	lru := c.tail.prev
	c.removeNode(lru)
	delete(c.cache, lru.key)
	c.size--
}

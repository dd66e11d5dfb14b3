package cache

import (
	"fmt"
	"sync"
	"time"

	"pathtree_service/models"
)

// MemoryCache implements CacheProvider using in-memory storage
type MemoryCache struct {
	mu       sync.RWMutex
	listings []*models.TreeListing
	nested   map[int64]*models.NestedNode
	ttl      time.Duration
	expiries map[string]time.Time
}

// NewMemoryCache creates a new in-memory cache provider
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		ttl:      5 * time.Minute,
		nested:   make(map[int64]*models.NestedNode),
		expiries: make(map[string]time.Time),
	}
}

// Initialize performs any necessary setup for the cache provider
func (c *MemoryCache) Initialize() error {
	return nil
}

const treeListKey = "trees"

// nestedKey generates a cache key for a tree's nested root
func nestedKey(treeID int64) string {
	return fmt.Sprintf("tree:%d:nested", treeID)
}

// GetTreeList retrieves the cached all-trees listing if available
func (c *MemoryCache) GetTreeList() ([]*models.TreeListing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.listings == nil || c.expired(treeListKey) {
		return nil, false
	}
	return c.listings, true
}

// SetTreeList stores the all-trees listing in cache
func (c *MemoryCache) SetTreeList(listings []*models.TreeListing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listings = listings
	c.expiries[treeListKey] = time.Now().Add(c.ttl)
}

// GetNestedTree retrieves a tree's cached nested root if available
func (c *MemoryCache) GetNestedTree(treeID int64) (*models.NestedNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expired(nestedKey(treeID)) {
		return nil, false
	}
	root, ok := c.nested[treeID]
	return root, ok
}

// SetNestedTree stores a tree's nested root in cache
func (c *MemoryCache) SetNestedTree(treeID int64, root *models.NestedNode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nested[treeID] = root
	c.expiries[nestedKey(treeID)] = time.Now().Add(c.ttl)
}

// InvalidateCache removes all cached data
func (c *MemoryCache) InvalidateCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listings = nil
	c.nested = make(map[int64]*models.NestedNode)
	c.expiries = make(map[string]time.Time)
}

// SetCacheTTL sets the cache time-to-live duration
func (c *MemoryCache) SetCacheTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ttl = ttl
	// Update all existing expiries
	now := time.Now()
	for key := range c.expiries {
		c.expiries[key] = now.Add(ttl)
	}
}

// expired reports whether the key is missing or past its expiry. Callers
// hold at least the read lock.
func (c *MemoryCache) expired(key string) bool {
	expiry, exists := c.expiries[key]
	return !exists || time.Now().After(expiry)
}

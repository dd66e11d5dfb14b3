package cache

import (
	"errors"
	"sync"
	"time"

	"pathtree_service/models"
)

// MockCache is a cache provider that can be used for testing
type MockCache struct {
	mu              sync.RWMutex
	listings        []*models.TreeListing
	nested          map[int64]*models.NestedNode
	ttl             time.Duration
	expiry          time.Time
	GetCalls        int
	SetCalls        int
	InvalidateCalls int
	SetTTLCalls     int
	InitCalls       int
	ShouldFail      bool
}

// NewMockCache creates a new mock cache provider
func NewMockCache() *MockCache {
	return &MockCache{
		ttl:    5 * time.Minute,
		nested: make(map[int64]*models.NestedNode),
	}
}

// Initialize performs any necessary setup for the cache provider
func (c *MockCache) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.InitCalls++
	if c.ShouldFail {
		return ErrCacheInitialization
	}
	return nil
}

// GetTreeList retrieves the cached all-trees listing if available
func (c *MockCache) GetTreeList() ([]*models.TreeListing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++

	if c.ShouldFail || c.listings == nil || time.Now().After(c.expiry) {
		return nil, false
	}
	return c.listings, true
}

// SetTreeList stores the all-trees listing in cache
func (c *MockCache) SetTreeList(listings []*models.TreeListing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++

	if !c.ShouldFail {
		c.listings = listings
		c.expiry = time.Now().Add(c.ttl)
	}
}

// GetNestedTree retrieves a tree's cached nested root if available
func (c *MockCache) GetNestedTree(treeID int64) (*models.NestedNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++

	if c.ShouldFail || time.Now().After(c.expiry) {
		return nil, false
	}
	root, ok := c.nested[treeID]
	return root, ok
}

// SetNestedTree stores a tree's nested root in cache
func (c *MockCache) SetNestedTree(treeID int64, root *models.NestedNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++

	if !c.ShouldFail {
		c.nested[treeID] = root
		c.expiry = time.Now().Add(c.ttl)
	}
}

// InvalidateCache removes all cached data
func (c *MockCache) InvalidateCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.InvalidateCalls++

	if !c.ShouldFail {
		c.listings = nil
		c.nested = make(map[int64]*models.NestedNode)
		c.expiry = time.Time{}
	}
}

// SetCacheTTL sets the cache time-to-live duration
func (c *MockCache) SetCacheTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetTTLCalls++

	if !c.ShouldFail {
		c.ttl = ttl
		if c.listings != nil || len(c.nested) > 0 {
			c.expiry = time.Now().Add(ttl)
		}
	}
}

// Reset resets all counters and state
func (c *MockCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls = 0
	c.SetCalls = 0
	c.InvalidateCalls = 0
	c.SetTTLCalls = 0
	c.InitCalls = 0
	c.ShouldFail = false
	c.listings = nil
	c.nested = make(map[int64]*models.NestedNode)
	c.expiry = time.Time{}
}

// SetShouldFail makes the mock cache fail all operations
func (c *MockCache) SetShouldFail(shouldFail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ShouldFail = shouldFail
}

// ErrCacheInitialization is returned when the mock cache is configured to fail
var ErrCacheInitialization = errors.New("mock cache initialization failed")

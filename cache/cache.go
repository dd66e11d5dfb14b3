package cache

import (
	"os"
	"sync"
	"time"

	"pathtree_service/models"
)

var (
	provider CacheProvider
	once     sync.Once
	mu       sync.RWMutex
)

// CacheProvider defines the interface for cache implementations.
// It caches the two read-heavy responses of the service: the all-trees
// listing and the per-tree nested structure. Any mutation to any tree
// invalidates everything.
type CacheProvider interface {
	// GetTreeList retrieves the cached all-trees listing if available.
	// The boolean reports whether the listing was found in cache.
	GetTreeList() ([]*models.TreeListing, bool)

	// SetTreeList stores the all-trees listing in cache.
	SetTreeList(listings []*models.TreeListing)

	// GetNestedTree retrieves a tree's cached nested root if available.
	GetNestedTree(treeID int64) (*models.NestedNode, bool)

	// SetNestedTree stores a tree's nested root in cache.
	SetNestedTree(treeID int64, root *models.NestedNode)

	// InvalidateCache removes all cached data.
	// This is typically called when any tree is modified.
	InvalidateCache()

	// SetCacheTTL sets the cache time-to-live duration.
	SetCacheTTL(ttl time.Duration)

	// Initialize performs any necessary setup for the cache provider.
	// Returns an error if initialization fails.
	Initialize() error
}

// Initialize sets up the cache provider
func Initialize() error {
	var err error
	once.Do(func() {
		// Use Redis in local development, MemoryCache otherwise
		if os.Getenv("REDIS_HOST") != "" {
			provider = NewRedisCache()
		} else {
			provider = NewMemoryCache()
		}
		err = provider.Initialize()
	})
	return err
}

// GetTreeList retrieves the cached all-trees listing if available
func GetTreeList() ([]*models.TreeListing, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return provider.GetTreeList()
}

// SetTreeList stores the all-trees listing in cache
func SetTreeList(listings []*models.TreeListing) {
	mu.Lock()
	defer mu.Unlock()
	provider.SetTreeList(listings)
}

// GetNestedTree retrieves a tree's cached nested root if available
func GetNestedTree(treeID int64) (*models.NestedNode, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return provider.GetNestedTree(treeID)
}

// SetNestedTree stores a tree's nested root in cache
func SetNestedTree(treeID int64, root *models.NestedNode) {
	mu.Lock()
	defer mu.Unlock()
	provider.SetNestedTree(treeID, root)
}

// InvalidateCache removes all cached data
func InvalidateCache() {
	mu.Lock()
	defer mu.Unlock()
	provider.InvalidateCache()
}

// SetCacheTTL sets the cache time-to-live duration
func SetCacheTTL(ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	provider.SetCacheTTL(ttl)
}

// SetProvider allows changing the cache provider at runtime
func SetProvider(p CacheProvider) error {
	mu.Lock()
	defer mu.Unlock()
	if err := p.Initialize(); err != nil {
		return err
	}
	provider = p
	return nil
}

// ResetProvider resets the cache provider for testing
func ResetProvider() {
	mu.Lock()
	defer mu.Unlock()
	provider = nil
	once = sync.Once{}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pathtree_service/models"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements CacheProvider using Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache provider
func NewRedisCache() *RedisCache {
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	return &RedisCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

// Initialize performs any necessary setup for the cache provider
func (c *RedisCache) Initialize() error {
	ctx := context.Background()
	_, err := c.client.Ping(ctx).Result()
	return err
}

// GetTreeList retrieves the cached all-trees listing if available
func (c *RedisCache) GetTreeList() ([]*models.TreeListing, bool) {
	ctx := context.Background()
	data, err := c.client.Get(ctx, treeListKey).Result()
	if err != nil {
		return nil, false
	}

	var listings []*models.TreeListing
	if err := json.Unmarshal([]byte(data), &listings); err != nil {
		return nil, false
	}

	return listings, true
}

// SetTreeList stores the all-trees listing in cache
func (c *RedisCache) SetTreeList(listings []*models.TreeListing) {
	ctx := context.Background()
	data, err := json.Marshal(listings)
	if err != nil {
		return
	}

	c.client.Set(ctx, treeListKey, data, c.ttl)
}

// GetNestedTree retrieves a tree's cached nested root if available
func (c *RedisCache) GetNestedTree(treeID int64) (*models.NestedNode, bool) {
	ctx := context.Background()
	data, err := c.client.Get(ctx, nestedKey(treeID)).Result()
	if err != nil {
		return nil, false
	}

	var root models.NestedNode
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		return nil, false
	}

	return &root, true
}

// SetNestedTree stores a tree's nested root in cache
func (c *RedisCache) SetNestedTree(treeID int64, root *models.NestedNode) {
	ctx := context.Background()
	data, err := json.Marshal(root)
	if err != nil {
		return
	}

	c.client.Set(ctx, nestedKey(treeID), data, c.ttl)
}

// InvalidateCache removes all cached data
func (c *RedisCache) InvalidateCache() {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, "tree:*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	c.client.Del(ctx, treeListKey)
}

// SetCacheTTL sets the cache time-to-live duration
func (c *RedisCache) SetCacheTTL(ttl time.Duration) {
	c.ttl = ttl
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

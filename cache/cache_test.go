package cache

import (
	"testing"
	"time"

	"pathtree_service/models"

	"github.com/stretchr/testify/assert"
)

func sampleListing() []*models.TreeListing {
	return []*models.TreeListing{
		{
			TreeID: 1,
			Root: &models.NestedNode{
				ID:       1,
				TreeID:   1,
				Path:     "1",
				Name:     "root",
				Children: []*models.NestedNode{},
			},
		},
	}
}

func TestMemoryCacheTreeList(t *testing.T) {
	c := NewMemoryCache()
	assert.NoError(t, c.Initialize())

	_, found := c.GetTreeList()
	assert.False(t, found)

	c.SetTreeList(sampleListing())
	listings, found := c.GetTreeList()
	assert.True(t, found)
	assert.Len(t, listings, 1)
	assert.Equal(t, int64(1), listings[0].TreeID)

	c.InvalidateCache()
	_, found = c.GetTreeList()
	assert.False(t, found)
}

func TestMemoryCacheNestedTree(t *testing.T) {
	c := NewMemoryCache()
	assert.NoError(t, c.Initialize())

	_, found := c.GetNestedTree(1)
	assert.False(t, found)

	root := &models.NestedNode{ID: 1, TreeID: 1, Path: "1", Name: "root"}
	c.SetNestedTree(1, root)

	got, found := c.GetNestedTree(1)
	assert.True(t, found)
	assert.Equal(t, "1", got.Path)

	// Other trees are unaffected
	_, found = c.GetNestedTree(2)
	assert.False(t, found)

	c.InvalidateCache()
	_, found = c.GetNestedTree(1)
	assert.False(t, found)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	assert.NoError(t, c.Initialize())

	c.SetTreeList(sampleListing())
	c.SetCacheTTL(-1 * time.Second)

	_, found := c.GetTreeList()
	assert.False(t, found)
}

func TestDynamoDBCache(t *testing.T) {
	client := NewMockDynamoDBClient()
	c := NewDynamoDBCacheWithClient(client)
	assert.NoError(t, c.Initialize())

	_, found := c.GetTreeList()
	assert.False(t, found)

	c.SetTreeList(sampleListing())
	listings, found := c.GetTreeList()
	assert.True(t, found)
	assert.Len(t, listings, 1)
	assert.Equal(t, "root", listings[0].Root.Name)

	root := &models.NestedNode{ID: 1, TreeID: 1, Path: "1", Name: "root"}
	c.SetNestedTree(1, root)
	got, found := c.GetNestedTree(1)
	assert.True(t, found)
	assert.Equal(t, "root", got.Name)

	c.InvalidateCache()
	_, found = c.GetTreeList()
	assert.False(t, found)
	_, found = c.GetNestedTree(1)
	assert.False(t, found)
}

func TestSetProviderAndGlobals(t *testing.T) {
	defer ResetProvider()

	mock := NewMockCache()
	assert.NoError(t, SetProvider(mock))
	assert.Equal(t, 1, mock.InitCalls)

	SetTreeList(sampleListing())
	listings, found := GetTreeList()
	assert.True(t, found)
	assert.Len(t, listings, 1)

	InvalidateCache()
	_, found = GetTreeList()
	assert.False(t, found)
	assert.Equal(t, 1, mock.InvalidateCalls)
}

func TestSetProviderInitFailure(t *testing.T) {
	defer ResetProvider()

	mock := NewMockCache()
	mock.SetShouldFail(true)
	err := SetProvider(mock)
	assert.ErrorIs(t, err, ErrCacheInitialization)
}

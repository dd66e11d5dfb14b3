package repository

import (
	"context"
	"testing"

	"pathtree_service/models"

	"github.com/stretchr/testify/assert"
)

func TestMockRepository(t *testing.T) {
	repo := NewMockRepository()
	err := repo.Initialize(context.Background())
	assert.NoError(t, err)
	defer repo.Cleanup(context.Background())

	ctx := context.Background()

	// Insert a root row with an empty path, then fill the path in
	id, err := repo.InsertNode(ctx, &models.TreeNode{TreeID: 1, Name: "root"})
	assert.NoError(t, err)
	assert.Greater(t, id, int64(0))

	err = repo.SetPath(ctx, id, "1")
	assert.NoError(t, err)

	node, err := repo.GetNode(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "1", node.Path)
	assert.Equal(t, "root", node.Name)
	assert.Nil(t, node.Data)

	// Update name and data
	data := "payload"
	node.Name = "renamed"
	node.Data = &data
	err = repo.UpdateNode(ctx, node)
	assert.NoError(t, err)

	node, err = repo.GetNode(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "renamed", node.Name)
	assert.NotNil(t, node.Data)
	assert.Equal(t, "payload", *node.Data)

	// Clear the payload
	err = repo.ClearData(ctx, id)
	assert.NoError(t, err)
	node, err = repo.GetNode(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, node.Data)
}

func TestMockRepositoryInsertRequiresName(t *testing.T) {
	repo := NewMockRepository()
	defer repo.Cleanup(context.Background())

	_, err := repo.InsertNode(context.Background(), &models.TreeNode{TreeID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMockRepositoryNotFound(t *testing.T) {
	repo := NewMockRepository()
	defer repo.Cleanup(context.Background())

	ctx := context.Background()

	_, err := repo.GetNode(ctx, 42)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	assert.ErrorIs(t, repo.SetPath(ctx, 42, "42"), ErrNodeNotFound)
	assert.ErrorIs(t, repo.ClearData(ctx, 42), ErrNodeNotFound)
	assert.ErrorIs(t, repo.UpdateNode(ctx, &models.TreeNode{ID: 42, Name: "x"}), ErrNodeNotFound)
}

func TestMockRepositoryPrefixQueries(t *testing.T) {
	repo := NewMockRepository()
	defer repo.Cleanup(context.Background())

	ctx := context.Background()
	seed := func(treeID int64, path string) {
		_, err := repo.InsertNode(ctx, &models.TreeNode{TreeID: treeID, Path: path, Name: path})
		assert.NoError(t, err)
	}
	seed(1, "1")
	seed(1, "1.1")
	seed(1, "1.1.1")
	seed(1, "1.10")
	seed(2, "1.2")

	// Prefix matching is raw and tree-scoped; depth filtering is the
	// caller's job
	nodes, err := repo.ListByPrefix(ctx, 1, "1.")
	assert.NoError(t, err)
	assert.Len(t, nodes, 3)

	has, err := repo.HasDescendant(ctx, 1, "1.1")
	assert.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasDescendant(ctx, 1, "1.10")
	assert.NoError(t, err)
	assert.False(t, has)

	byTree, err := repo.ListByTree(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, byTree, 4)
	assert.Equal(t, "1", byTree[0].Path)

	all, err := repo.ListAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMockRepositoryDeleteSubtree(t *testing.T) {
	repo := NewMockRepository()
	defer repo.Cleanup(context.Background())

	ctx := context.Background()
	seed := func(path string) {
		_, err := repo.InsertNode(ctx, &models.TreeNode{TreeID: 2, Path: path, Name: path})
		assert.NoError(t, err)
	}
	seed("2")
	seed("2.1")
	seed("2.1.1")
	seed("2.1.2.3")
	seed("2.10")

	deleted, err := repo.DeleteSubtree(ctx, 2, "2.1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := repo.ListByTree(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, remaining, 2)
	assert.Equal(t, "2", remaining[0].Path)
	assert.Equal(t, "2.10", remaining[1].Path)
}

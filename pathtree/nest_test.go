package pathtree

import (
	"testing"

	"pathtree_service/models"

	"github.com/stretchr/testify/assert"
)

func node(id, treeID int64, path, name string) *models.TreeNode {
	return &models.TreeNode{ID: id, TreeID: treeID, Path: path, Name: name}
}

func TestNestEmpty(t *testing.T) {
	assert.Nil(t, Nest(nil))
	assert.Nil(t, Nest([]*models.TreeNode{}))
}

func TestNestNoRoot(t *testing.T) {
	// No dot-free path in the set, so there is nothing to hang nodes on
	nodes := []*models.TreeNode{
		node(2, 1, "1.1", "a"),
		node(3, 1, "1.2", "b"),
	}
	assert.Nil(t, Nest(nodes))
}

func TestNestStructure(t *testing.T) {
	nodes := []*models.TreeNode{
		node(5, 1, "5", "root"),
		node(6, 1, "5.1", "first"),
		node(7, 1, "5.1.1", "grandchild"),
		node(8, 1, "5.2", "second"),
	}

	root := Nest(nodes)
	assert.NotNil(t, root)
	assert.Equal(t, "5", root.Path)
	assert.Len(t, root.Children, 2)
	assert.Equal(t, "5.1", root.Children[0].Path)
	assert.Equal(t, "5.2", root.Children[1].Path)
	assert.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "5.1.1", root.Children[0].Children[0].Path)
	assert.Empty(t, root.Children[1].Children)
}

func TestNestChildOrderingIsNumeric(t *testing.T) {
	// Insert out of order and with two-digit indices to catch string sorts
	nodes := []*models.TreeNode{
		node(1, 1, "1.10", "tenth"),
		node(2, 1, "1", "root"),
		node(3, 1, "1.9", "ninth"),
		node(4, 1, "1.2", "second"),
	}

	root := Nest(nodes)
	assert.NotNil(t, root)
	assert.Len(t, root.Children, 3)
	assert.Equal(t, "1.2", root.Children[0].Path)
	assert.Equal(t, "1.9", root.Children[1].Path)
	assert.Equal(t, "1.10", root.Children[2].Path)
}

func TestNestDropsOrphans(t *testing.T) {
	// "1.5.1"'s parent "1.5" is absent, so the node is silently dropped
	nodes := []*models.TreeNode{
		node(1, 1, "1", "root"),
		node(2, 1, "1.1", "child"),
		node(3, 1, "1.5.1", "orphan"),
	}

	root := Nest(nodes)
	assert.NotNil(t, root)
	assert.Len(t, root.Children, 1)
	assert.Equal(t, "1.1", root.Children[0].Path)
}

func TestGroupByTreePreservesFirstSeenOrder(t *testing.T) {
	nodes := []*models.TreeNode{
		node(1, 7, "1", "a"),
		node(2, 3, "2", "b"),
		node(3, 7, "1.1", "c"),
		node(4, 9, "4", "d"),
	}

	order, grouped := GroupByTree(nodes)
	assert.Equal(t, []int64{7, 3, 9}, order)
	assert.Len(t, grouped[7], 2)
	assert.Len(t, grouped[3], 1)
	assert.Len(t, grouped[9], 1)
}

func TestListTrees(t *testing.T) {
	nodes := []*models.TreeNode{
		node(1, 1, "1", "first root"),
		node(2, 1, "1.1", "first child"),
		node(3, 2, "3.1", "rootless"),
	}

	listings := ListTrees(nodes)
	assert.Len(t, listings, 2)

	assert.Equal(t, int64(1), listings[0].TreeID)
	assert.NotNil(t, listings[0].Root)
	assert.Len(t, listings[0].Root.Children, 1)

	// A tree whose rows lack a dot-free path lists with a nil root
	assert.Equal(t, int64(2), listings[1].TreeID)
	assert.Nil(t, listings[1].Root)
}

func TestListTreesEmpty(t *testing.T) {
	listings := ListTrees(nil)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

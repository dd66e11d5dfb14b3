package pathtree

import (
	"sort"

	"pathtree_service/models"
)

// Nest reconstructs a nested tree from a flat set of node rows.
//
// The row whose path contains no dot is the root; when the input is empty
// or contains no such row, Nest returns nil. Every other row is attached
// to the row whose path equals its parent path. Rows whose parent path is
// absent from the input are silently dropped from the output — they stay
// orphaned, which is not an error. After attachment every children list
// is sorted by component-wise integer path comparison, recursively.
func Nest(nodes []*models.TreeNode) *models.NestedNode {
	if len(nodes) == 0 {
		return nil
	}

	// First pass: index every row by path and find the root.
	pathMap := make(map[string]*models.NestedNode, len(nodes))
	var root *models.NestedNode
	for _, node := range nodes {
		nested := models.NewNestedNode(node)
		pathMap[node.Path] = nested
		if IsRoot(node.Path) {
			root = nested
		}
	}
	if root == nil {
		return nil
	}

	// Second pass: attach each non-root row to its parent, when present.
	for _, node := range nodes {
		parentPath, ok := ParentPath(node.Path)
		if !ok {
			continue
		}
		if parent, exists := pathMap[parentPath]; exists {
			parent.AddChild(pathMap[node.Path])
		}
	}

	sortChildren(root)
	return root
}

// sortChildren orders every children list by path, recursively. Paths
// form a tree by construction, so the recursion terminates.
func sortChildren(node *models.NestedNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return Less(node.Children[i].Path, node.Children[j].Path)
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

// GroupByTree partitions rows by tree ID, preserving the first-seen order
// of each tree ID in the input.
func GroupByTree(nodes []*models.TreeNode) ([]int64, map[int64][]*models.TreeNode) {
	var order []int64
	grouped := make(map[int64][]*models.TreeNode)
	for _, node := range nodes {
		if _, seen := grouped[node.TreeID]; !seen {
			order = append(order, node.TreeID)
		}
		grouped[node.TreeID] = append(grouped[node.TreeID], node)
	}
	return order, grouped
}

// ListTrees groups rows by tree ID and nests each group independently.
// A group without a root row yields a listing with a nil root.
func ListTrees(nodes []*models.TreeNode) []*models.TreeListing {
	order, grouped := GroupByTree(nodes)
	listings := make([]*models.TreeListing, 0, len(order))
	for _, treeID := range order {
		listings = append(listings, &models.TreeListing{
			TreeID: treeID,
			Root:   Nest(grouped[treeID]),
		})
	}
	return listings
}

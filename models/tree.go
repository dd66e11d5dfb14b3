package models

// TreeNode represents a single persisted node row.
//
// Path encodes the node's position in its tree as a dot-separated sequence
// of positive integers: a root's path is the decimal form of its own ID,
// and a child's path is "<parent path>.<sibling index>" where the sibling
// index is a 1-based, append-only counter among the parent's direct
// children at creation time.
type TreeNode struct {
	ID     int64   `json:"id"`
	TreeID int64   `json:"tree_id"`
	Path   string  `json:"path"`
	Name   string  `json:"name"`
	Data   *string `json:"data"`
}

// NestedNode is the hierarchical form of a TreeNode returned by the
// nested-tree endpoints.
type NestedNode struct {
	ID       int64         `json:"id"`
	TreeID   int64         `json:"tree_id"`
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Data     *string       `json:"data"`
	Children []*NestedNode `json:"children"`
}

// NewNestedNode creates a nested node from a persisted row.
func NewNestedNode(node *TreeNode) *NestedNode {
	return &NestedNode{
		ID:       node.ID,
		TreeID:   node.TreeID,
		Path:     node.Path,
		Name:     node.Name,
		Data:     node.Data,
		Children: make([]*NestedNode, 0),
	}
}

// AddChild appends a child to the node's children list.
func (n *NestedNode) AddChild(child *NestedNode) {
	n.Children = append(n.Children, child)
}

// TreeListing pairs a tree's identifier with its nested root. Root is nil
// when the tree's rows contain no dot-free path.
type TreeListing struct {
	TreeID int64       `json:"tree_id"`
	Root   *NestedNode `json:"root"`
}

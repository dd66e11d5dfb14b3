package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pathtree_service/models"
	"pathtree_service/pathtree"
)

// MockRepository implements Repository interface for testing
type MockRepository struct {
	nodes  map[int64]*models.TreeNode
	nextID int64
	mu     sync.RWMutex
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		nodes: make(map[int64]*models.TreeNode),
	}
}

// Initialize performs any necessary setup
func (m *MockRepository) Initialize(ctx context.Context) error {
	return nil
}

// Cleanup performs any necessary cleanup
func (m *MockRepository) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = make(map[int64]*models.TreeNode)
	m.nextID = 0
	return nil
}

// InsertNode persists a new node row and returns its assigned ID
func (m *MockRepository) InsertNode(ctx context.Context, node *models.TreeNode) (int64, error) {
	if node.Name == "" {
		return 0, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	stored := *node
	stored.ID = m.nextID
	m.nodes[stored.ID] = &stored

	return stored.ID, nil
}

// SetPath overwrites a node's path
func (m *MockRepository) SetPath(ctx context.Context, id int64, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	node.Path = path
	return nil
}

// GetNode retrieves a node by ID
func (m *MockRepository) GetNode(ctx context.Context, id int64) (*models.TreeNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}

	copied := *node
	return &copied, nil
}

// ListAll retrieves every node row across all trees
func (m *MockRepository) ListAll(ctx context.Context) ([]*models.TreeNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := m.collect(func(n *models.TreeNode) bool { return true })
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].TreeID != nodes[j].TreeID {
			return nodes[i].TreeID < nodes[j].TreeID
		}
		return nodes[i].Path < nodes[j].Path
	})
	return nodes, nil
}

// ListByTree retrieves all rows of one tree ordered by path text
func (m *MockRepository) ListByTree(ctx context.Context, treeID int64) ([]*models.TreeNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := m.collect(func(n *models.TreeNode) bool { return n.TreeID == treeID })
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Path < nodes[j].Path
	})
	return nodes, nil
}

// ListByPrefix retrieves all rows of one tree whose path starts with prefix
func (m *MockRepository) ListByPrefix(ctx context.Context, treeID int64, prefix string) ([]*models.TreeNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := m.collect(func(n *models.TreeNode) bool {
		return n.TreeID == treeID && strings.HasPrefix(n.Path, prefix)
	})
	return nodes, nil
}

// HasDescendant reports whether any row sits strictly below the given path
func (m *MockRepository) HasDescendant(ctx context.Context, treeID int64, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := pathtree.ChildPrefix(path)
	for _, node := range m.nodes {
		if node.TreeID == treeID && strings.HasPrefix(node.Path, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// UpdateNode persists a node's name and data
func (m *MockRepository) UpdateNode(ctx context.Context, node *models.TreeNode) error {
	if node.Name == "" {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.nodes[node.ID]
	if !ok {
		return ErrNodeNotFound
	}
	stored.Name = node.Name
	stored.Data = node.Data
	return nil
}

// ClearData nulls out a node's data payload
func (m *MockRepository) ClearData(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	node.Data = nil
	return nil
}

// DeleteSubtree removes the named node and its descendant subtree
func (m *MockRepository) DeleteSubtree(ctx context.Context, treeID int64, path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := pathtree.ChildPrefix(path)
	var deleted int64
	for id, node := range m.nodes {
		if node.TreeID != treeID {
			continue
		}
		if node.Path == path || strings.HasPrefix(node.Path, prefix) {
			delete(m.nodes, id)
			deleted++
		}
	}
	return deleted, nil
}

// collect returns copies of every node matching the filter. Callers hold
// at least the read lock.
func (m *MockRepository) collect(match func(*models.TreeNode) bool) []*models.TreeNode {
	var nodes []*models.TreeNode
	for _, node := range m.nodes {
		if match(node) {
			copied := *node
			nodes = append(nodes, &copied)
		}
	}
	return nodes
}

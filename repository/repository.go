package repository

import (
	"context"
	"errors"

	"pathtree_service/models"
)

// Repository defines the interface for data access operations.
// It provides the flat-row primitives the materialized-path model is
// built on: inserts, id lookups, prefix-filtered selects and deletes,
// all scoped to a single tree where a tree ID is given.
type Repository interface {
	// Initialize performs any necessary setup for the repository.
	// This may include establishing database connections, creating tables,
	// or any other initialization required for the repository to function.
	// Returns an error if initialization fails.
	Initialize(ctx context.Context) error

	// Cleanup performs any necessary cleanup operations for the repository.
	// This may include closing database connections, cleaning up temporary
	// files, or any other cleanup required when the repository is no longer
	// needed. Returns an error if cleanup fails.
	Cleanup(ctx context.Context) error

	// InsertNode persists a new node row and returns its store-assigned ID.
	// The node's Path may be empty at insert time; root creation fills it
	// in with a second write once the ID is known.
	InsertNode(ctx context.Context, node *models.TreeNode) (int64, error)

	// SetPath overwrites the path of an existing node.
	// Returns ErrNodeNotFound if no node exists with the given ID.
	SetPath(ctx context.Context, id int64, path string) error

	// GetNode retrieves a node by its ID.
	// Returns ErrNodeNotFound if no node exists with the given ID.
	GetNode(ctx context.Context, id int64) (*models.TreeNode, error)

	// ListAll retrieves every node row across all trees.
	ListAll(ctx context.Context) ([]*models.TreeNode, error)

	// ListByTree retrieves all rows of one tree, ordered by path text.
	ListByTree(ctx context.Context, treeID int64) ([]*models.TreeNode, error)

	// ListByPrefix retrieves all rows of one tree whose path starts with
	// the given prefix. Callers pass a dot-bounded prefix ("3.1.") so that
	// sibling paths sharing digits are not matched.
	ListByPrefix(ctx context.Context, treeID int64, prefix string) ([]*models.TreeNode, error)

	// HasDescendant reports whether any row of the tree has a path
	// strictly below the given path.
	HasDescendant(ctx context.Context, treeID int64, path string) (bool, error)

	// UpdateNode persists the node's current Name and Data.
	// Returns ErrNodeNotFound if no node exists with the node's ID.
	UpdateNode(ctx context.Context, node *models.TreeNode) error

	// ClearData nulls out the data payload of an existing node. Used when
	// a node gains its first child and becomes a container.
	ClearData(ctx context.Context, id int64) error

	// DeleteSubtree removes the row whose path matches exactly plus every
	// row below it, in one store operation, and returns the number of
	// rows removed.
	DeleteSubtree(ctx context.Context, treeID int64, path string) (int64, error)
}

// Common errors
var (
	// ErrNodeNotFound is returned when a requested node does not exist
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input")
)

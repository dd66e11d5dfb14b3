package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"pathtree_service/migrations"
	"pathtree_service/models"
	"pathtree_service/pathtree"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteRepository creates a new SQLite repository instance
func NewSQLiteRepository() Repository {
	// Default to data directory in user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Create data directory if it doesn't exist
	dataDir := filepath.Join(homeDir, ".pathtree")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		// Fallback to current directory if home directory is not accessible
		dataDir = "."
	}

	return &SQLiteRepository{
		dbPath: filepath.Join(dataDir, "pathtree.db"),
	}
}

// Initialize sets up the SQLite database
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return err
	}

	r.db = db
	return nil
}

// Cleanup closes the database connection
func (r *SQLiteRepository) Cleanup(ctx context.Context) error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertNode persists a new node row and returns its assigned ID
func (r *SQLiteRepository) InsertNode(ctx context.Context, node *models.TreeNode) (int64, error) {
	if node.Name == "" {
		return 0, ErrInvalidInput
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO tree_nodes (tree_id, path, name, data) VALUES (?, ?, ?, ?)",
		node.TreeID, node.Path, node.Name, node.Data,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// SetPath overwrites a node's path
func (r *SQLiteRepository) SetPath(ctx context.Context, id int64, path string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tree_nodes SET path = ? WHERE id = ?", path, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// GetNode retrieves a node by ID
func (r *SQLiteRepository) GetNode(ctx context.Context, id int64) (*models.TreeNode, error) {
	var node models.TreeNode
	var data sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes WHERE id = ?", id).
		Scan(&node.ID, &node.TreeID, &node.Path, &node.Name, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}
	if data.Valid {
		node.Data = &data.String
	}
	return &node, nil
}

// ListAll retrieves every node row across all trees
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*models.TreeNode, error) {
	return r.queryNodes(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes ORDER BY tree_id, path")
}

// ListByTree retrieves all rows of one tree ordered by path
func (r *SQLiteRepository) ListByTree(ctx context.Context, treeID int64) ([]*models.TreeNode, error) {
	return r.queryNodes(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes WHERE tree_id = ? ORDER BY path",
		treeID)
}

// ListByPrefix retrieves all rows of one tree whose path starts with prefix
func (r *SQLiteRepository) ListByPrefix(ctx context.Context, treeID int64, prefix string) ([]*models.TreeNode, error) {
	return r.queryNodes(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes WHERE tree_id = ? AND path LIKE ? || '%'",
		treeID, prefix)
}

// HasDescendant reports whether any row sits strictly below the given path
func (r *SQLiteRepository) HasDescendant(ctx context.Context, treeID int64, path string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM tree_nodes WHERE tree_id = ? AND path LIKE ? || '%')",
		treeID, pathtree.ChildPrefix(path),
	).Scan(&exists)
	return exists, err
}

// UpdateNode persists a node's name and data
func (r *SQLiteRepository) UpdateNode(ctx context.Context, node *models.TreeNode) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tree_nodes SET name = ?, data = ? WHERE id = ?",
		node.Name, node.Data, node.ID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// ClearData nulls out a node's data payload
func (r *SQLiteRepository) ClearData(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tree_nodes SET data = NULL WHERE id = ?", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// DeleteSubtree removes the named node and its descendant subtree
func (r *SQLiteRepository) DeleteSubtree(ctx context.Context, treeID int64, path string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tree_nodes WHERE tree_id = ? AND (path = ? OR path LIKE ? || '%')",
		treeID, path, pathtree.ChildPrefix(path),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SQLiteRepository) queryNodes(ctx context.Context, query string, args ...interface{}) ([]*models.TreeNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*models.TreeNode
	for rows.Next() {
		var node models.TreeNode
		var data sql.NullString
		if err := rows.Scan(&node.ID, &node.TreeID, &node.Path, &node.Name, &data); err != nil {
			return nil, err
		}
		if data.Valid {
			node.Data = &data.String
		}
		nodes = append(nodes, &node)
	}
	return nodes, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pathtree_service/config"
	"pathtree_service/models"
	"pathtree_service/pathtree"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db     *sql.DB
	config *config.DatabaseConfig
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(cfgProvider config.Provider) (*PostgresRepository, error) {
	ctx := context.Background()
	cfg, err := config.GetDatabaseConfig(ctx, cfgProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to get database config: %w", err)
	}

	return &PostgresRepository{
		config: cfg,
	}, nil
}

// Initialize sets up the PostgreSQL database
func (r *PostgresRepository) Initialize(ctx context.Context) error {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		r.config.Host,
		r.config.Port,
		r.config.User,
		r.config.Password,
		r.config.DBName,
		r.config.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("error pinging database: %w", err)
	}

	// Run migrations
	if err := r.runMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("error running migrations: %w", err)
	}

	r.db = db
	return nil
}

// runMigrations executes database migrations
func (r *PostgresRepository) runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("error creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("error creating migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}

// Cleanup closes the database connection
func (r *PostgresRepository) Cleanup(ctx context.Context) error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertNode persists a new node row and returns its assigned ID
func (r *PostgresRepository) InsertNode(ctx context.Context, node *models.TreeNode) (int64, error) {
	if node.Name == "" {
		return 0, ErrInvalidInput
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO tree_nodes (tree_id, path, name, data) VALUES ($1, $2, $3, $4) RETURNING id",
		node.TreeID, node.Path, node.Name, node.Data,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting node: %w", err)
	}
	return id, nil
}

// SetPath overwrites a node's path
func (r *PostgresRepository) SetPath(ctx context.Context, id int64, path string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tree_nodes SET path = $1 WHERE id = $2",
		path, id,
	)
	if err != nil {
		return fmt.Errorf("error setting node path: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// GetNode retrieves a node by ID
func (r *PostgresRepository) GetNode(ctx context.Context, id int64) (*models.TreeNode, error) {
	var node models.TreeNode
	var data sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes WHERE id = $1",
		id,
	).Scan(&node.ID, &node.TreeID, &node.Path, &node.Name, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNodeNotFound
		}
		return nil, fmt.Errorf("error getting node: %w", err)
	}
	if data.Valid {
		node.Data = &data.String
	}
	return &node, nil
}

// ListAll retrieves every node row across all trees
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.TreeNode, error) {
	return r.queryNodes(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes ORDER BY tree_id, path")
}

// ListByTree retrieves all rows of one tree ordered by path
func (r *PostgresRepository) ListByTree(ctx context.Context, treeID int64) ([]*models.TreeNode, error) {
	return r.queryNodes(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes WHERE tree_id = $1 ORDER BY path",
		treeID)
}

// ListByPrefix retrieves all rows of one tree whose path starts with prefix
func (r *PostgresRepository) ListByPrefix(ctx context.Context, treeID int64, prefix string) ([]*models.TreeNode, error) {
	return r.queryNodes(ctx,
		"SELECT id, tree_id, path, name, data FROM tree_nodes WHERE tree_id = $1 AND path LIKE $2 || '%'",
		treeID, prefix)
}

// HasDescendant reports whether any row sits strictly below the given path
func (r *PostgresRepository) HasDescendant(ctx context.Context, treeID int64, path string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM tree_nodes WHERE tree_id = $1 AND path LIKE $2 || '%')",
		treeID, pathtree.ChildPrefix(path),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking descendants: %w", err)
	}
	return exists, nil
}

// UpdateNode persists a node's name and data
func (r *PostgresRepository) UpdateNode(ctx context.Context, node *models.TreeNode) error {
	if node.Name == "" {
		return ErrInvalidInput
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE tree_nodes SET name = $1, data = $2 WHERE id = $3",
		node.Name, node.Data, node.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating node: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// ClearData nulls out a node's data payload
func (r *PostgresRepository) ClearData(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tree_nodes SET data = NULL WHERE id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("error clearing node data: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// DeleteSubtree removes the named node and its entire descendant subtree
// in a single statement. Prefix matching is dot-bounded so deleting "2.1"
// leaves "2.10" untouched.
func (r *PostgresRepository) DeleteSubtree(ctx context.Context, treeID int64, path string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tree_nodes WHERE tree_id = $1 AND (path = $2 OR path LIKE $3 || '%')",
		treeID, path, pathtree.ChildPrefix(path),
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting subtree: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	return rows, nil
}

// queryNodes runs a select returning full node rows and scans them
func (r *PostgresRepository) queryNodes(ctx context.Context, query string, args ...interface{}) ([]*models.TreeNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*models.TreeNode
	for rows.Next() {
		var node models.TreeNode
		var data sql.NullString
		if err := rows.Scan(&node.ID, &node.TreeID, &node.Path, &node.Name, &data); err != nil {
			return nil, fmt.Errorf("error scanning node: %w", err)
		}
		if data.Valid {
			node.Data = &data.String
		}
		nodes = append(nodes, &node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return nodes, nil
}

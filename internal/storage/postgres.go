package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	apperrors "github.com/ghulammurtaza27/debugmaster/internal/errors"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "connect to postgres").
			WithDetail("check DATABASE_URL and that the server accepts connections")
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.DatabaseError(err, "init postgres schema")
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS code_nodes (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (path, type, name)
	);

	CREATE TABLE IF NOT EXISTS code_edges (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL REFERENCES code_nodes(id) ON DELETE CASCADE,
		target_id TEXT NOT NULL REFERENCES code_nodes(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (source_id, target_id, type)
	);

	CREATE INDEX IF NOT EXISTS idx_code_nodes_path ON code_nodes(path);
	CREATE INDEX IF NOT EXISTS idx_code_edges_source ON code_edges(source_id);
	CREATE INDEX IF NOT EXISTS idx_code_edges_target ON code_edges(target_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// UpsertNode inserts a node or updates the content of an existing one,
// keyed by (path, type, name)
func (s *PostgresStore) UpsertNode(ctx context.Context, node *models.CodeNode) (*models.CodeNode, error) {
	if err := validateNode(node); err != nil {
		return nil, err
	}

	id := node.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO code_nodes (id, path, type, name, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (path, type, name) DO UPDATE SET
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at
		RETURNING id, path, type, name, content, created_at, updated_at
	`

	var row nodeRow
	err := s.db.GetContext(ctx, &row, query, id, node.Path, string(node.Type), node.Name, node.Content, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert node %s: %w", node.Path, err)
	}

	return row.toModel(), nil
}

// FindNode looks up a node by its natural key
func (s *PostgresStore) FindNode(ctx context.Context, path string, nodeType models.NodeType, name string) (*models.CodeNode, error) {
	var row nodeRow
	query := `SELECT * FROM code_nodes WHERE path = $1 AND type = $2 AND name = $3`

	err := s.db.GetContext(ctx, &row, query, path, string(nodeType), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find node: %w", err)
	}

	return row.toModel(), nil
}

// GetNode looks up a node by id
func (s *PostgresStore) GetNode(ctx context.Context, id string) (*models.CodeNode, error) {
	var row nodeRow
	query := `SELECT * FROM code_nodes WHERE id = $1`

	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get node: %w", err)
	}

	return row.toModel(), nil
}

// NodeExists reports whether a node id exists
func (s *PostgresStore) NodeExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM code_nodes WHERE id = $1)`

	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("node exists: %w", err)
	}
	return exists, nil
}

// FindFileNode looks up the file node for a repository path
func (s *PostgresStore) FindFileNode(ctx context.Context, path string) (*models.CodeNode, error) {
	return s.FindNode(ctx, path, models.NodeTypeFile, pathBase(path))
}

// UpsertEdge creates-or-merges an edge keyed by (source, target, type).
// Endpoint existence is checked inside the same transaction as the write so
// a concurrent clear cannot produce an orphaned edge.
func (s *PostgresStore) UpsertEdge(ctx context.Context, edge *models.CodeEdge) (*models.CodeEdge, error) {
	if edge.SourceID == "" || edge.TargetID == "" {
		return nil, ErrDanglingReference
	}

	metadata, err := marshalMetadata(edge.Metadata)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, endpoint := range []string{edge.SourceID, edge.TargetID} {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM code_nodes WHERE id = $1)`, endpoint); err != nil {
			return nil, fmt.Errorf("check edge endpoint: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("edge %s -> %s: %w", edge.SourceID, edge.TargetID, ErrDanglingReference)
		}
	}

	id := edge.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO code_edges (id, source_id, target_id, type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source_id, target_id, type) DO UPDATE SET
			metadata = EXCLUDED.metadata
		RETURNING id, source_id, target_id, type, metadata, created_at
	`

	var row edgeRow
	if err := tx.GetContext(ctx, &row, query, id, edge.SourceID, edge.TargetID, string(edge.Type), metadata, now); err != nil {
		return nil, fmt.Errorf("upsert edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit edge: %w", err)
	}

	return row.toModel()
}

// ListNodes returns all nodes
func (s *PostgresStore) ListNodes(ctx context.Context) ([]*models.CodeNode, error) {
	var rows []nodeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM code_nodes ORDER BY path, type, name`); err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	return nodesToModels(rows), nil
}

// ListEdges returns all edges
func (s *PostgresStore) ListEdges(ctx context.Context) ([]*models.CodeEdge, error) {
	var rows []edgeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM code_edges ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	return edgesToModels(rows)
}

// DeleteAll removes all edges then all nodes in one transaction
func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Edges first to respect referential constraints
	if _, err := tx.ExecContext(ctx, `DELETE FROM code_edges`); err != nil {
		return fmt.Errorf("delete edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM code_nodes`); err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}

	return tx.Commit()
}

package storage

import (
	"context"
	"errors"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// Common errors
var (
	// ErrNotFound indicates the requested node or edge does not exist
	ErrNotFound = errors.New("not found")

	// ErrDanglingReference indicates an edge referenced a node id that does
	// not exist; the edge is rejected and no row is created
	ErrDanglingReference = errors.New("dangling reference: edge endpoint does not exist")
)

// Store is the relational persistence contract for code nodes and edges.
// The relational store is authoritative; the graph index is a best-effort
// secondary (see internal/graph).
type Store interface {
	// UpsertNode inserts a node or, when (path, type, name) already exists,
	// updates its content and returns the stored row with its assigned id
	UpsertNode(ctx context.Context, node *models.CodeNode) (*models.CodeNode, error)

	// FindNode looks up a node by its natural key
	FindNode(ctx context.Context, path string, nodeType models.NodeType, name string) (*models.CodeNode, error)

	// GetNode looks up a node by id
	GetNode(ctx context.Context, id string) (*models.CodeNode, error)

	// NodeExists reports whether a node id exists
	NodeExists(ctx context.Context, id string) (bool, error)

	// UpsertEdge creates-or-merges an edge after verifying both endpoints
	// exist; returns ErrDanglingReference otherwise
	UpsertEdge(ctx context.Context, edge *models.CodeEdge) (*models.CodeEdge, error)

	// ListNodes returns all nodes
	ListNodes(ctx context.Context) ([]*models.CodeNode, error)

	// ListEdges returns all edges
	ListEdges(ctx context.Context) ([]*models.CodeEdge, error)

	// FindFileNode is FindNode specialized to file nodes, used by readers
	// that only know a repository path
	FindFileNode(ctx context.Context, path string) (*models.CodeNode, error)

	// DeleteAll removes all edges then all nodes in one transaction
	DeleteAll(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}

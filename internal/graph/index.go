package graph

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// Index is the graph-oriented secondary store. The relational store is
// authoritative; every Index write is best-effort and idempotent
// (MERGE-by-key semantics).
type Index interface {
	// MergeNode creates-or-updates the graph projection of a node
	MergeNode(ctx context.Context, node *models.CodeNode) error

	// MergeEdge creates-or-updates the graph projection of an edge;
	// both endpoint nodes must already be merged
	MergeEdge(ctx context.Context, edge *models.CodeEdge) error

	// Clear removes every node and edge from the index
	Clear(ctx context.Context) error

	// Available reports whether a real graph store backs this index
	Available() bool

	// Close releases the underlying driver
	Close(ctx context.Context) error
}

// NullIndex is the degraded-mode capability object used when the graph
// store is unreachable at startup: every write is a silent no-op, so a
// missing graph store can never fail a mutation.
type NullIndex struct{}

func (NullIndex) MergeNode(context.Context, *models.CodeNode) error { return nil }
func (NullIndex) MergeEdge(context.Context, *models.CodeEdge) error { return nil }
func (NullIndex) Clear(context.Context) error                       { return nil }
func (NullIndex) Available() bool                                   { return false }
func (NullIndex) Close(context.Context) error                       { return nil }

// Connect probes the graph store once at startup and returns the index to
// use for the process lifetime. An unreachable store is logged exactly once
// and degrades to NullIndex; it is never retried mid-run.
func Connect(ctx context.Context, cfg config.Neo4jConfig, logger *logrus.Logger) Index {
	index, err := NewNeo4jIndex(ctx, cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	if err != nil {
		logger.WithError(err).WithField("uri", cfg.URI).
			Warn("graph store unreachable, continuing in degraded mode (relational store only)")
		return NullIndex{}
	}

	logger.WithField("uri", cfg.URI).Info("graph index connected")
	return index
}

package graph

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/storage"
)

// Service is the graph persistence layer. It owns the CodeNode/CodeEdge
// lifecycle and dual-writes every mutation: the relational store is
// authoritative, the graph index a best-effort secondary. Index failures are
// logged and never propagated; relational failures are fatal for the
// operation and returned to the caller.
type Service struct {
	store  storage.Store
	index  Index
	logger *logrus.Logger
}

// NewService creates the persistence layer over an injected store and index
func NewService(store storage.Store, index Index, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// UpsertNode creates-or-updates a node keyed by (path, type, name).
// Re-processing the same declaration updates content in place; it never
// duplicates.
func (s *Service) UpsertNode(ctx context.Context, node *models.CodeNode) (*models.CodeNode, error) {
	stored, err := s.store.UpsertNode(ctx, node)
	if err != nil {
		return nil, err
	}

	if err := s.index.MergeNode(ctx, stored); err != nil {
		s.logger.WithError(err).WithField("path", stored.Path).Warn("graph index node merge failed")
	}

	return stored, nil
}

// UpsertEdge creates-or-merges an edge between two existing nodes. Returns
// storage.ErrDanglingReference when either endpoint is missing.
func (s *Service) UpsertEdge(ctx context.Context, sourceID, targetID string, edgeType models.EdgeType, metadata map[string]string) (*models.CodeEdge, error) {
	edge, err := s.store.UpsertEdge(ctx, &models.CodeEdge{
		SourceID: sourceID,
		TargetID: targetID,
		Type:     edgeType,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := s.index.MergeEdge(ctx, edge); err != nil {
		s.logger.WithError(err).WithField("type", edge.Type).Warn("graph index edge merge failed")
	}

	return edge, nil
}

// FindFileNode looks up the file node for a repository path
func (s *Service) FindFileNode(ctx context.Context, path string) (*models.CodeNode, error) {
	return s.store.FindFileNode(ctx, path)
}

// UpsertPlaceholderFile ensures a file node exists for an import target that
// has not been analyzed yet. An existing node is returned untouched so a
// placeholder can never clobber real content.
func (s *Service) UpsertPlaceholderFile(ctx context.Context, filePath string) (*models.CodeNode, error) {
	node, err := s.store.FindFileNode(ctx, filePath)
	if err == nil {
		return node, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return s.UpsertNode(ctx, &models.CodeNode{
		Path: filePath,
		Type: models.NodeTypeFile,
		Name: path.Base(filePath),
	})
}

// ClearGraph deletes all edges then all nodes, used before a full
// repository re-analysis
func (s *Service) ClearGraph(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear relational graph: %w", err)
	}

	if err := s.index.Clear(ctx); err != nil {
		s.logger.WithError(err).Warn("graph index clear failed")
	}

	return nil
}

// Snapshot returns the read-only projection of current graph state
func (s *Service) Snapshot(ctx context.Context, isAnalyzing bool) (*models.GraphSnapshot, error) {
	nodes, err := s.store.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot nodes: %w", err)
	}

	edges, err := s.store.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot edges: %w", err)
	}

	return &models.GraphSnapshot{
		Nodes:       nodes,
		Edges:       edges,
		IsAnalyzing: isAnalyzing,
	}, nil
}

// Degraded reports whether the service is running without a graph index
func (s *Service) Degraded() bool {
	return !s.index.Available()
}

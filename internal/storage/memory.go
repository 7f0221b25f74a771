package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// MemoryStore is an in-process Store with the same upsert and referential
// semantics as the SQL-backed stores. Used by tests and throwaway local
// runs; nothing is persisted.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]*models.CodeNode // id -> node
	edges map[string]*models.CodeEdge // id -> edge
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]*models.CodeNode),
		edges: make(map[string]*models.CodeEdge),
	}
}

func (s *MemoryStore) Close() error { return nil }

func nodeKey(path string, nodeType models.NodeType, name string) string {
	return path + "\x00" + string(nodeType) + "\x00" + name
}

func edgeKey(sourceID, targetID string, edgeType models.EdgeType) string {
	return sourceID + "\x00" + targetID + "\x00" + string(edgeType)
}

// UpsertNode inserts a node or updates the content of an existing one,
// keyed by (path, type, name)
func (s *MemoryStore) UpsertNode(ctx context.Context, node *models.CodeNode) (*models.CodeNode, error) {
	if err := validateNode(node); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := nodeKey(node.Path, node.Type, node.Name)
	for _, existing := range s.nodes {
		if nodeKey(existing.Path, existing.Type, existing.Name) == key {
			existing.Content = node.Content
			existing.UpdatedAt = now
			copied := *existing
			return &copied, nil
		}
	}

	stored := &models.CodeNode{
		ID:        uuid.NewString(),
		Path:      node.Path,
		Type:      node.Type,
		Name:      node.Name,
		Content:   node.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nodes[stored.ID] = stored
	copied := *stored
	return &copied, nil
}

func (s *MemoryStore) FindNode(ctx context.Context, path string, nodeType models.NodeType, name string) (*models.CodeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := nodeKey(path, nodeType, name)
	for _, node := range s.nodes {
		if nodeKey(node.Path, node.Type, node.Name) == key {
			copied := *node
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetNode(ctx context.Context, id string) (*models.CodeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *node
	return &copied, nil
}

func (s *MemoryStore) NodeExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.nodes[id]
	return ok, nil
}

func (s *MemoryStore) FindFileNode(ctx context.Context, path string) (*models.CodeNode, error) {
	return s.FindNode(ctx, path, models.NodeTypeFile, pathBase(path))
}

func (s *MemoryStore) UpsertEdge(ctx context.Context, edge *models.CodeEdge) (*models.CodeEdge, error) {
	if edge.SourceID == "" || edge.TargetID == "" {
		return nil, ErrDanglingReference
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, endpoint := range []string{edge.SourceID, edge.TargetID} {
		if _, ok := s.nodes[endpoint]; !ok {
			return nil, fmt.Errorf("edge %s -> %s: %w", edge.SourceID, edge.TargetID, ErrDanglingReference)
		}
	}

	key := edgeKey(edge.SourceID, edge.TargetID, edge.Type)
	for _, existing := range s.edges {
		if edgeKey(existing.SourceID, existing.TargetID, existing.Type) == key {
			existing.Metadata = edge.Metadata
			copied := *existing
			return &copied, nil
		}
	}

	stored := &models.CodeEdge{
		ID:        uuid.NewString(),
		SourceID:  edge.SourceID,
		TargetID:  edge.TargetID,
		Type:      edge.Type,
		Metadata:  edge.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	s.edges[stored.ID] = stored
	copied := *stored
	return &copied, nil
}

func (s *MemoryStore) ListNodes(ctx context.Context) ([]*models.CodeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*models.CodeNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		copied := *node
		nodes = append(nodes, &copied)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodeKey(nodes[i].Path, nodes[i].Type, nodes[i].Name) <
			nodeKey(nodes[j].Path, nodes[j].Type, nodes[j].Name)
	})
	return nodes, nil
}

func (s *MemoryStore) ListEdges(ctx context.Context) ([]*models.CodeEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]*models.CodeEdge, 0, len(s.edges))
	for _, edge := range s.edges {
		copied := *edge
		edges = append(edges, &copied)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].CreatedAt.Before(edges[j].CreatedAt)
	})
	return edges, nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges = make(map[string]*models.CodeEdge)
	s.nodes = make(map[string]*models.CodeNode)
	return nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// nodeRow mirrors the code_nodes table
type nodeRow struct {
	ID        string    `db:"id"`
	Path      string    `db:"path"`
	Type      string    `db:"type"`
	Name      string    `db:"name"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *nodeRow) toModel() *models.CodeNode {
	return &models.CodeNode{
		ID:        r.ID,
		Path:      r.Path,
		Type:      models.NodeType(r.Type),
		Name:      r.Name,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// edgeRow mirrors the code_edges table; metadata is stored as JSON text
type edgeRow struct {
	ID        string    `db:"id"`
	SourceID  string    `db:"source_id"`
	TargetID  string    `db:"target_id"`
	Type      string    `db:"type"`
	Metadata  string    `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *edgeRow) toModel() (*models.CodeEdge, error) {
	edge := &models.CodeEdge{
		ID:        r.ID,
		SourceID:  r.SourceID,
		TargetID:  r.TargetID,
		Type:      models.EdgeType(r.Type),
		CreatedAt: r.CreatedAt,
	}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &edge.Metadata); err != nil {
			return nil, fmt.Errorf("decode edge metadata: %w", err)
		}
	}
	return edge, nil
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode edge metadata: %w", err)
	}
	return string(raw), nil
}

func nodesToModels(rows []nodeRow) []*models.CodeNode {
	nodes := make([]*models.CodeNode, 0, len(rows))
	for i := range rows {
		nodes = append(nodes, rows[i].toModel())
	}
	return nodes
}

func edgesToModels(rows []edgeRow) ([]*models.CodeEdge, error) {
	edges := make([]*models.CodeEdge, 0, len(rows))
	for i := range rows {
		edge, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

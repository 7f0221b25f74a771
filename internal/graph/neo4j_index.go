package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// Neo4jIndex implements Index on Neo4j with parameterized Cypher MERGE
// queries. Stateless: context is passed per request.
type Neo4jIndex struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jIndex creates a Neo4j-backed index and verifies connectivity.
// Callers should use Connect, which degrades to NullIndex on failure.
func NewNeo4jIndex(ctx context.Context, uri, username, password, database string) (*Neo4jIndex, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}

	return &Neo4jIndex{
		driver:   driver,
		database: database,
	}, nil
}

// MergeNode creates-or-updates a node using idempotent MERGE, keyed by the
// same (path, type, name) natural key as the relational store. The
// relational id is projected as the id property so edges can match on it.
func (n *Neo4jIndex) MergeNode(ctx context.Context, node *models.CodeNode) error {
	builder := NewCypherBuilder()
	cypher, err := builder.BuildMergeNode(
		nodeLabel(node.Type),
		map[string]any{
			"path": node.Path,
			"name": node.Name,
		},
		map[string]any{
			"id":      node.ID,
			"content": node.Content,
		},
	)
	if err != nil {
		return fmt.Errorf("build node query: %w", err)
	}

	_, err = neo4j.ExecuteQuery(ctx, n.driver, cypher,
		builder.Params(),
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(n.database))
	if err != nil {
		return fmt.Errorf("merge node %s: %w", node.Path, err)
	}

	return nil
}

// MergeEdge creates-or-updates an edge using idempotent MERGE; endpoints are
// matched by the relational node id
func (n *Neo4jIndex) MergeEdge(ctx context.Context, edge *models.CodeEdge) error {
	properties := make(map[string]any, len(edge.Metadata))
	for k, v := range edge.Metadata {
		properties[k] = v
	}

	builder := NewCypherBuilder()
	cypher, err := builder.BuildMergeEdge(edge.SourceID, edge.TargetID, edgeLabel(edge.Type), properties)
	if err != nil {
		return fmt.Errorf("build edge query: %w", err)
	}

	result, err := neo4j.ExecuteQuery(ctx, n.driver, cypher,
		builder.Params(),
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(n.database))
	if err != nil {
		return fmt.Errorf("merge edge %s: %w", edge.Type, err)
	}
	if len(result.Records) == 0 {
		return fmt.Errorf("merge edge %s: endpoints %s -> %s not present in index",
			edge.Type, edge.SourceID, edge.TargetID)
	}

	return nil
}

// Clear removes every node and edge from the index
func (n *Neo4jIndex) Clear(ctx context.Context) error {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	if err != nil {
		return fmt.Errorf("clear graph index: %w", err)
	}

	return nil
}

// Available reports whether a real graph store backs this index
func (n *Neo4jIndex) Available() bool {
	return true
}

// Close closes the Neo4j driver connection
func (n *Neo4jIndex) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

func nodeLabel(t models.NodeType) string {
	switch t {
	case models.NodeTypeFile:
		return "File"
	case models.NodeTypeFunction:
		return "Function"
	case models.NodeTypeClass:
		return "Class"
	default:
		return "Node"
	}
}

func edgeLabel(t models.EdgeType) string {
	return strings.ToUpper(string(t))
}

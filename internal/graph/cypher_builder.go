package graph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// CypherBuilder builds safe, parameterized Cypher queries.
// Security: prevents Cypher injection by using parameters for ALL values;
// labels and property names are validated against a strict identifier rule.
type CypherBuilder struct {
	params  map[string]any
	counter int
}

// NewCypherBuilder creates a query builder
func NewCypherBuilder() *CypherBuilder {
	return &CypherBuilder{
		params: make(map[string]any),
	}
}

// AddParam adds a parameter and returns its placeholder
func (b *CypherBuilder) AddParam(value any) string {
	paramName := fmt.Sprintf("p%d", b.counter)
	b.counter++
	b.params[paramName] = value
	return "$" + paramName
}

// Params returns all parameters for the query
func (b *CypherBuilder) Params() map[string]any {
	return b.params
}

// BuildMergeNode creates an idempotent MERGE query for node creation.
// mergeKeys identify the node; properties are overwritten on every merge.
func (b *CypherBuilder) BuildMergeNode(label string, mergeKeys, properties map[string]any) (string, error) {
	if !isValidIdentifier(label) {
		return "", fmt.Errorf("invalid node label: %s (must be alphanumeric + underscore)", label)
	}
	if len(mergeKeys) == 0 {
		return "", fmt.Errorf("merge keys required for label %s", label)
	}

	keyClauses := make([]string, 0, len(mergeKeys))
	for _, key := range sortedKeys(mergeKeys) {
		if !isValidIdentifier(key) {
			return "", fmt.Errorf("invalid merge key: %s (must be alphanumeric + underscore)", key)
		}
		keyClauses = append(keyClauses, fmt.Sprintf("%s: %s", key, b.AddParam(mergeKeys[key])))
	}

	setClauses := make([]string, 0, len(properties))
	for _, key := range sortedKeys(properties) {
		if !isValidIdentifier(key) {
			return "", fmt.Errorf("invalid property key: %s (must be alphanumeric + underscore)", key)
		}
		setClauses = append(setClauses, fmt.Sprintf("n.%s = %s", key, b.AddParam(properties[key])))
	}

	query := fmt.Sprintf("MERGE (n:%s {%s})", label, strings.Join(keyClauses, ", "))
	if len(setClauses) > 0 {
		query += " SET " + strings.Join(setClauses, ", ")
	}
	return query, nil
}

// BuildMergeEdge creates an idempotent MERGE query for an edge between two
// nodes matched by their id property
func (b *CypherBuilder) BuildMergeEdge(fromID, toID, edgeLabel string, properties map[string]any) (string, error) {
	if !isValidIdentifier(edgeLabel) {
		return "", fmt.Errorf("invalid edge label: %s", edgeLabel)
	}

	fromParam := b.AddParam(fromID)
	toParam := b.AddParam(toID)

	var propsStr string
	if len(properties) > 0 {
		propClauses := make([]string, 0, len(properties))
		for _, key := range sortedKeys(properties) {
			if !isValidIdentifier(key) {
				return "", fmt.Errorf("invalid edge property key: %s", key)
			}
			propClauses = append(propClauses, fmt.Sprintf("r.%s = %s", key, b.AddParam(properties[key])))
		}
		propsStr = " SET " + strings.Join(propClauses, ", ")
	}

	return fmt.Sprintf(
		"MATCH (from {id: %s}) MATCH (to {id: %s}) MERGE (from)-[r:%s]->(to)%s RETURN from, to",
		fromParam, toParam, edgeLabel, propsStr,
	), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier validates that a string can be safely used as a Cypher
// identifier. Only alphanumerics and underscores are allowed.
func isValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

package ingestion

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/storage"
)

func newTestAnalyzer(source *fakeSource) (*Analyzer, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	logger := quietLogger()
	graphSvc := graph.NewService(store, graph.NullIndex{}, logger)
	cfg := fastAnalysisConfig()
	walker := NewWalker(source, cfg, logger)
	return NewAnalyzer(source, walker, graphSvc, cfg, logger), store
}

func TestAnalyzeRepositoryBuildsGraph(t *testing.T) {
	source := newFakeSource()
	source.addFile("src/math.ts", "export function add(a: number, b: number) {\n  return a + b\n}\n")
	source.addFile("src/app.ts", "import { add } from './math'\n\nexport class App {\n  run() { return add(1, 2) }\n}\n")

	analyzer, store := newTestAnalyzer(source)
	result, err := analyzer.AnalyzeRepository(context.Background(), testRef())
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)

	ctx := context.Background()

	fileNode, err := store.FindFileNode(ctx, "src/app.ts")
	require.NoError(t, err)
	assert.NotEmpty(t, fileNode.Content)

	fn, err := store.FindNode(ctx, models.DeclarationID("src/math.ts", "add"), models.NodeTypeFunction, "add")
	require.NoError(t, err)
	assert.Contains(t, fn.Content, "return a + b")

	_, err = store.FindNode(ctx, models.DeclarationID("src/app.ts", "App"), models.NodeTypeClass, "App")
	require.NoError(t, err)

	edges, err := store.ListEdges(ctx)
	require.NoError(t, err)

	var containsCount, importsCount int
	for _, edge := range edges {
		switch edge.Type {
		case models.EdgeTypeContains:
			containsCount++
		case models.EdgeTypeImports:
			importsCount++
			assert.Equal(t, "./math", edge.Metadata["specifier"])
		}
	}
	// add, App, and App's run method
	assert.Equal(t, 3, containsCount)
	assert.Equal(t, 1, importsCount)

	// Extensionless import target becomes a placeholder file node
	_, err = store.FindFileNode(ctx, "src/math")
	require.NoError(t, err)
}

func TestAnalyzeRepositoryBatchIsolation(t *testing.T) {
	source := newFakeSource()
	for i := 1; i <= 12; i++ {
		source.addFile(fmt.Sprintf("src/f%02d.ts", i), fmt.Sprintf("export function f%02d() { return %d }\n", i, i))
	}
	// File #7 fails every fetch attempt
	source.failFetches["src/f07.ts"] = -1

	analyzer, store := newTestAnalyzer(source)
	result, err := analyzer.AnalyzeRepository(context.Background(), testRef())
	require.NoError(t, err)

	assert.Equal(t, 11, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)

	// Retries are bounded
	assert.Equal(t, 3, source.fetchCalls["src/f07.ts"])

	nodes, err := store.ListNodes(context.Background())
	require.NoError(t, err)

	var fileCount int
	for _, node := range nodes {
		if node.Type == models.NodeTypeFile {
			fileCount++
		}
	}
	assert.Equal(t, 11, fileCount)
	_, err = store.FindFileNode(context.Background(), "src/f07.ts")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAnalyzeRepositoryDegradedModeWriteSafety(t *testing.T) {
	source := newFakeSource()
	source.addFile("src/a.ts", "export function a() {}\n")
	source.addFile("src/b.ts", "export function b() {}\n")
	source.addFile("src/c.ts", "export function c() {}\n")

	// NullIndex is the degraded-mode index; every write must succeed
	// against the relational store alone
	analyzer, store := newTestAnalyzer(source)
	result, err := analyzer.AnalyzeRepository(context.Background(), testRef())
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)

	for _, path := range []string{"src/a.ts", "src/b.ts", "src/c.ts"} {
		_, err := store.FindFileNode(context.Background(), path)
		require.NoError(t, err)
	}
}

func TestAnalyzeRepositoryClearsPreviousGraph(t *testing.T) {
	source := newFakeSource()
	source.addFile("src/keep.ts", "export function keep() {}\n")

	analyzer, store := newTestAnalyzer(source)
	ctx := context.Background()

	// Seed a stale node from a prior run
	_, err := store.UpsertNode(ctx, &models.CodeNode{
		Path: "src/deleted.ts",
		Type: models.NodeTypeFile,
		Name: "deleted.ts",
	})
	require.NoError(t, err)

	_, err = analyzer.AnalyzeRepository(ctx, testRef())
	require.NoError(t, err)

	_, err = store.FindFileNode(ctx, "src/deleted.ts")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.FindFileNode(ctx, "src/keep.ts")
	assert.NoError(t, err)
}

package graph

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/storage"
)

// recordingIndex counts merges and can be forced to fail every call
type recordingIndex struct {
	nodeMerges int
	edgeMerges int
	clears     int
	fail       bool
}

func (r *recordingIndex) MergeNode(context.Context, *models.CodeNode) error {
	r.nodeMerges++
	if r.fail {
		return errors.New("index down")
	}
	return nil
}

func (r *recordingIndex) MergeEdge(context.Context, *models.CodeEdge) error {
	r.edgeMerges++
	if r.fail {
		return errors.New("index down")
	}
	return nil
}

func (r *recordingIndex) Clear(context.Context) error {
	r.clears++
	if r.fail {
		return errors.New("index down")
	}
	return nil
}

func (r *recordingIndex) Available() bool              { return true }
func (r *recordingIndex) Close(context.Context) error { return nil }

func newTestService(index Index) (*Service, *storage.MemoryStore) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := storage.NewMemoryStore()
	return NewService(store, index, logger), store
}

func fileNode(path string) *models.CodeNode {
	return &models.CodeNode{Path: path, Type: models.NodeTypeFile, Name: path}
}

func TestUpsertNodeIdempotency(t *testing.T) {
	svc, store := newTestService(NullIndex{})
	ctx := context.Background()

	first, err := svc.UpsertNode(ctx, &models.CodeNode{
		Path: "src/a.ts", Type: models.NodeTypeFile, Name: "a.ts", Content: "v1",
	})
	require.NoError(t, err)

	second, err := svc.UpsertNode(ctx, &models.CodeNode{
		Path: "src/a.ts", Type: models.NodeTypeFile, Name: "a.ts", Content: "v2",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "v2", second.Content)

	nodes, err := store.ListNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, "v2", nodes[0].Content)
}

func TestUpsertEdgeDanglingReference(t *testing.T) {
	svc, store := newTestService(NullIndex{})
	ctx := context.Background()

	node, err := svc.UpsertNode(ctx, fileNode("src/a.ts"))
	require.NoError(t, err)

	_, err = svc.UpsertEdge(ctx, node.ID, "no-such-id", models.EdgeTypeImports, nil)
	assert.ErrorIs(t, err, storage.ErrDanglingReference)

	_, err = svc.UpsertEdge(ctx, "no-such-id", node.ID, models.EdgeTypeImports, nil)
	assert.ErrorIs(t, err, storage.ErrDanglingReference)

	edges, err := store.ListEdges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestIndexFailureNeverPropagates(t *testing.T) {
	index := &recordingIndex{fail: true}
	svc, store := newTestService(index)
	ctx := context.Background()

	source, err := svc.UpsertNode(ctx, fileNode("src/a.ts"))
	require.NoError(t, err)
	target, err := svc.UpsertNode(ctx, fileNode("src/b.ts"))
	require.NoError(t, err)

	_, err = svc.UpsertEdge(ctx, source.ID, target.ID, models.EdgeTypeImports, nil)
	require.NoError(t, err)

	require.NoError(t, svc.ClearGraph(ctx))

	// Relational writes happened despite every index call failing
	assert.Equal(t, 2, index.nodeMerges)
	assert.Equal(t, 1, index.edgeMerges)
	assert.Equal(t, 1, index.clears)

	nodes, err := store.ListNodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestUpsertPlaceholderFileNeverClobbers(t *testing.T) {
	svc, _ := newTestService(NullIndex{})
	ctx := context.Background()

	real, err := svc.UpsertNode(ctx, &models.CodeNode{
		Path: "src/util.ts", Type: models.NodeTypeFile, Name: "util.ts", Content: "export {}",
	})
	require.NoError(t, err)

	placeholder, err := svc.UpsertPlaceholderFile(ctx, "src/util.ts")
	require.NoError(t, err)
	assert.Equal(t, real.ID, placeholder.ID)
	assert.Equal(t, "export {}", placeholder.Content)

	fresh, err := svc.UpsertPlaceholderFile(ctx, "src/missing.ts")
	require.NoError(t, err)
	assert.Empty(t, fresh.Content)
	assert.Equal(t, models.NodeTypeFile, fresh.Type)
	assert.Equal(t, "missing.ts", fresh.Name)
}

func TestSnapshotAndDegraded(t *testing.T) {
	svc, _ := newTestService(NullIndex{})
	ctx := context.Background()

	_, err := svc.UpsertNode(ctx, fileNode("src/a.ts"))
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx, true)
	require.NoError(t, err)
	assert.Len(t, snapshot.Nodes, 1)
	assert.True(t, snapshot.IsAnalyzing)

	assert.True(t, svc.Degraded())

	available, _ := newTestService(&recordingIndex{})
	assert.False(t, available.Degraded())
}

package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghulammurtaza27/debugmaster/internal/ai"
	"github.com/ghulammurtaza27/debugmaster/internal/assembler"
	"github.com/ghulammurtaza27/debugmaster/internal/cache"
	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/ingestion"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/storage"
)

// emptySource is a content source for a repository with no files
type emptySource struct{}

func (emptySource) ListDirectory(context.Context, github.RepositoryRef, string) ([]github.Entry, error) {
	return nil, nil
}

func (emptySource) GetFileContent(context.Context, github.RepositoryRef, string) (string, error) {
	return "", errors.New("no such file")
}

func (emptySource) FileExists(context.Context, github.RepositoryRef, string) (bool, error) {
	return false, nil
}

// fakeIssues resolves issues from a map; unknown numbers error
type fakeIssues struct {
	issues map[int]*models.Issue
}

func (f *fakeIssues) FetchIssue(ctx context.Context, ref github.RepositoryRef, number int) (*models.Issue, error) {
	issue, ok := f.issues[number]
	if !ok {
		return nil, errors.New("issue not found")
	}
	return issue, nil
}

func newTestFacade(issues IssueResolver) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := storage.NewMemoryStore()
	graphSvc := graph.NewService(store, graph.NullIndex{}, logger)

	analysisCfg := config.AnalysisConfig{WalkerBatchSize: 5, BatchSize: 10, FetchRetries: 3}
	walker := ingestion.NewWalker(emptySource{}, analysisCfg, logger)
	analyzer := ingestion.NewAnalyzer(emptySource{}, walker, graphSvc, analysisCfg, logger)

	contextCfg := config.ContextConfig{PreferredChunkSize: 1000, MaxChunks: 3}
	asm := assembler.NewAssembler(emptySource{}, graphSvc, ai.NullExtractor{}, cache.NullCache{}, contextCfg, logger)

	return New(analyzer, graphSvc, asm, issues, logger)
}

func TestBuildContextResolvesIssue(t *testing.T) {
	svc := newTestFacade(&fakeIssues{issues: map[int]*models.Issue{
		189: {
			Number: 189, Owner: "acme", Repo: "webapp",
			Title:        "Checkout crashes",
			CodeSnippets: []string{"boom()"},
		},
	}})

	bundle := svc.BuildContext(context.Background(), github.RepositoryRef{Owner: "acme", Name: "webapp"}, 189)
	require.NotNil(t, bundle)
	assert.NotEmpty(t, bundle.Files)
	assert.Equal(t, "acme/webapp", bundle.Metadata.RepoID)
}

func TestBuildContextIssueResolutionFailure(t *testing.T) {
	svc := newTestFacade(&fakeIssues{})

	bundle := svc.BuildContext(context.Background(), github.RepositoryRef{Owner: "acme", Name: "webapp"}, 404)
	require.NotNil(t, bundle)
	assert.True(t, bundle.Metadata.Fallback)
	assert.NotEmpty(t, bundle.Files)
	assert.Contains(t, bundle.Metadata.Error, "issue not found")
}

func TestAnalyzeRepositorySetsSnapshotFlag(t *testing.T) {
	svc := newTestFacade(&fakeIssues{})
	ctx := context.Background()

	result, err := svc.AnalyzeRepository(ctx, github.RepositoryRef{Owner: "acme", Name: "webapp"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessCount)

	snapshot, err := svc.GraphSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snapshot.IsAnalyzing)
	assert.Empty(t, snapshot.Nodes)
}

func TestDegradedReflectsIndex(t *testing.T) {
	svc := newTestFacade(&fakeIssues{})
	assert.True(t, svc.Degraded())
}

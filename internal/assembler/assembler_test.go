package assembler

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghulammurtaza27/debugmaster/internal/ai"
	"github.com/ghulammurtaza27/debugmaster/internal/cache"
	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/storage"
)

// fakeSource serves an in-memory file set; directories are not needed by
// the assembler
type fakeSource struct {
	files map[string]string
}

func (f *fakeSource) ListDirectory(ctx context.Context, ref github.RepositoryRef, path string) ([]github.Entry, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeSource) GetFileContent(ctx context.Context, ref github.RepositoryRef, path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file %q", path)
	}
	return content, nil
}

func (f *fakeSource) FileExists(ctx context.Context, ref github.RepositoryRef, path string) (bool, error) {
	_, ok := f.files[path]
	return ok, nil
}

// fakeMentions returns a fixed mention list
type fakeMentions struct {
	mentions []string
}

func (f *fakeMentions) ExtractMentions(context.Context, *models.Issue) []string {
	return f.mentions
}

func newTestAssembler(source *fakeSource, mentions ai.MentionExtractor) *Assembler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	graphSvc := graph.NewService(storage.NewMemoryStore(), graph.NullIndex{}, logger)
	cfg := config.ContextConfig{PreferredChunkSize: 1000, MaxChunks: 3}
	return NewAssembler(source, graphSvc, mentions, cache.NullCache{}, cfg, logger)
}

func testRef() github.RepositoryRef {
	return github.RepositoryRef{Owner: "acme", Name: "webapp"}
}

func TestBuildContextFullPipeline(t *testing.T) {
	source := &fakeSource{files: map[string]string{
		"src/orders.ts":      "import { log } from './log'\n\nexport function submitOrder(order: Order) {\n  return log(order)\n}\n",
		"src/log.ts":         "export function log(x: unknown) { return x }\n",
		"src/orders.test.ts": "import { submitOrder } from './orders'\n\ntest('submits', () => submitOrder(null))\n",
		"package.json":       `{"dependencies": {"react": "^18.0.0"}, "devDependencies": {"vitest": "^1.0.0"}}`,
	}}

	issue := &models.Issue{
		Number: 189,
		Owner:  "acme",
		Repo:   "webapp",
		Title:  "Order submission crashes",
		Body:   "Crash on submit.",
		Labels: []string{"bug"},
		URL:    "https://github.com/acme/webapp/issues/189",
		StackTrace: "at submitOrder (src/orders.ts:3:10)\n" +
			"at handleClick (src/log.ts:1:1)",
	}

	asm := newTestAssembler(source, ai.NullExtractor{})
	bundle := asm.BuildContext(context.Background(), testRef(), issue)
	require.NotNil(t, bundle)
	assert.False(t, bundle.Metadata.Fallback)

	byPath := map[string][]models.ContextFile{}
	for _, file := range bundle.Files {
		byPath[file.Path] = append(byPath[file.Path], file)
	}

	require.Contains(t, byPath, "src/orders.ts")
	require.Contains(t, byPath, "src/log.ts")
	require.Contains(t, byPath, "package.json")

	// Test association at fixed relevance
	require.Contains(t, byPath, "src/orders.test.ts")
	assert.InDelta(t, 0.7, byPath["src/orders.test.ts"][0].Relevance, 1e-9)

	// src/orders.ts: stack trace (0.4) + one dependency (0.05)
	assert.InDelta(t, 0.45, byPath["src/orders.ts"][0].Relevance, 1e-9)
	// src/log.ts: stack trace (0.4) + one dependent (0.05)
	assert.InDelta(t, 0.45, byPath["src/log.ts"][0].Relevance, 1e-9)
	// package.json: config file only
	assert.InDelta(t, 0.1, byPath["package.json"][0].Relevance, 1e-9)

	// Files are ordered by descending relevance
	for i := 1; i < len(bundle.Files); i++ {
		assert.GreaterOrEqual(t, bundle.Files[i-1].Relevance, bundle.Files[i].Relevance)
	}

	// Dependency maps key by real candidate paths
	assert.Equal(t, []string{"src/log.ts"}, bundle.ProjectStructure.Dependencies["src/orders.ts"])
	assert.Equal(t, []string{"src/orders.ts"}, bundle.ProjectStructure.Dependents["src/log.ts"])
	assert.Equal(t, "src/orders.test.ts", bundle.ProjectStructure.TestCoverage["src/orders.ts"])

	assert.Equal(t, "^18.0.0", bundle.PackageDependencies.Dependencies["react"])
	assert.Equal(t, "^1.0.0", bundle.PackageDependencies.DevDependencies["vitest"])

	assert.Equal(t, 2, bundle.Metadata.FromStackTrace)
	assert.Equal(t, "acme/webapp", bundle.Metadata.RepoID)
	assert.Equal(t, issue.URL, bundle.Metadata.IssueURL)
	assert.Equal(t, 4, bundle.Metadata.TotalFiles)
}

// fixedScorer pins relevance so chunking behavior can be driven directly
type fixedScorer struct{ relevance float64 }

func (f fixedScorer) Score(CandidateSignals) float64 { return f.relevance }

func TestBuildContextTotalFilesCountsChunkedFileOnce(t *testing.T) {
	var content string
	for i := 0; i < 200; i++ {
		content += fmt.Sprintf("console.log('line %d')\n", i)
	}
	source := &fakeSource{files: map[string]string{
		"src/huge.ts": content,
	}}

	issue := &models.Issue{
		Owner: "acme", Repo: "webapp",
		Title:      "Crash in huge module",
		StackTrace: "at run (src/huge.ts:10:1)",
	}

	asm := newTestAssembler(source, ai.NullExtractor{}).WithScorer(fixedScorer{relevance: 0.95})
	bundle := asm.BuildContext(context.Background(), testRef(), issue)
	require.NotNil(t, bundle)

	chunks := 0
	for _, file := range bundle.Files {
		if file.Path == "src/huge.ts" {
			chunks++
		}
	}
	require.Greater(t, chunks, 1)
	assert.Equal(t, 1, bundle.Metadata.TotalFiles)
}

func TestBuildContextNonEmptyBundle(t *testing.T) {
	// Only a title and one snippet: no stack trace, no repository files
	issue := &models.Issue{
		Title:        "Something crashes",
		CodeSnippets: []string{"boom()"},
	}

	asm := newTestAssembler(&fakeSource{files: map[string]string{}}, ai.NullExtractor{})
	bundle := asm.BuildContext(context.Background(), testRef(), issue)
	require.NotNil(t, bundle)

	require.GreaterOrEqual(t, len(bundle.Files), 2)

	var snippet *models.ContextFile
	for i := range bundle.Files {
		if bundle.Files[i].Path == "snippet-1.txt" {
			snippet = &bundle.Files[i]
		}
	}
	require.NotNil(t, snippet)
	assert.InDelta(t, 0.9, snippet.Relevance, 1e-9)
	assert.Equal(t, "boom()", snippet.Content)
}

func TestBuildContextMentionsContribute(t *testing.T) {
	source := &fakeSource{files: map[string]string{
		"src/billing.ts": "export function charge() {}\n",
	}}
	mentions := &fakeMentions{mentions: []string{"src/billing.ts", "chargeHelper", ""}}

	issue := &models.Issue{
		Owner: "acme", Repo: "webapp",
		Title: "Billing is wrong",
		Body:  "The charge amount is doubled in src/billing.ts",
	}

	asm := newTestAssembler(source, mentions)
	bundle := asm.BuildContext(context.Background(), testRef(), issue)

	var billing *models.ContextFile
	for i := range bundle.Files {
		if bundle.Files[i].Path == "src/billing.ts" {
			billing = &bundle.Files[i]
		}
	}
	require.NotNil(t, billing)
	assert.InDelta(t, 0.3, billing.Relevance, 1e-9)
	assert.Equal(t, 1, bundle.Metadata.FromMentions)
}

func TestBuildContextNilIssueFallsBack(t *testing.T) {
	asm := newTestAssembler(&fakeSource{files: map[string]string{}}, ai.NullExtractor{})
	bundle := asm.BuildContext(context.Background(), testRef(), nil)
	require.NotNil(t, bundle)
	assert.True(t, bundle.Metadata.Fallback)
	assert.NotEmpty(t, bundle.Files)
}

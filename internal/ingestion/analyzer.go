package ingestion

import (
	"context"
	"path"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/treesitter"
)

// ContentFetcher is the slice of the source client the analyzer needs to
// pull file contents
type ContentFetcher interface {
	GetFileContent(ctx context.Context, ref github.RepositoryRef, path string) (string, error)
}

// Analyzer drives a full repository analysis: clear the graph, walk the
// tree, then fetch and parse files in paced batches, persisting nodes and
// edges through the graph service. One file failing never poisons its
// batch; failures are counted and logged, and the run continues.
type Analyzer struct {
	fetcher ContentFetcher
	walker  *Walker
	graph   *graph.Service
	logger  *logrus.Logger
	cfg     config.AnalysisConfig
}

// NewAnalyzer creates a repository analyzer
func NewAnalyzer(fetcher ContentFetcher, walker *Walker, graphSvc *graph.Service, cfg config.AnalysisConfig, logger *logrus.Logger) *Analyzer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = 3
	}
	return &Analyzer{
		fetcher: fetcher,
		walker:  walker,
		graph:   graphSvc,
		logger:  logger,
		cfg:     cfg,
	}
}

// AnalyzeRepository rebuilds the structural graph for a repository from
// scratch. The previous graph is cleared first so stale nodes from deleted
// files cannot survive a re-analysis.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, ref github.RepositoryRef) (*models.AnalysisResult, error) {
	start := time.Now()

	a.logger.WithField("repo", ref.ID()).Info("starting repository analysis")

	if err := a.graph.ClearGraph(ctx); err != nil {
		return nil, err
	}

	files, err := a.walker.ListAllFiles(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{}
	for batchStart := 0; batchStart < len(files); batchStart += a.cfg.BatchSize {
		batchEnd := batchStart + a.cfg.BatchSize
		if batchEnd > len(files) {
			batchEnd = len(files)
		}

		for _, filePath := range files[batchStart:batchEnd] {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			if err := a.analyzeFile(ctx, ref, filePath); err != nil {
				result.FailureCount++
				a.logger.WithError(err).WithField("path", filePath).Warn("file analysis failed")
				continue
			}
			result.SuccessCount++
		}

		if batchEnd < len(files) {
			if err := sleepCtx(ctx, a.cfg.BatchPause); err != nil {
				return result, err
			}
		}
	}

	result.Duration = time.Since(start)
	a.logger.WithFields(logrus.Fields{
		"repo":     ref.ID(),
		"analyzed": result.SuccessCount,
		"failed":   result.FailureCount,
		"duration": result.Duration.Round(time.Millisecond),
	}).Info("repository analysis complete")

	return result, nil
}

// analyzeFile fetches, parses, and persists one file: a file node, a node
// plus contains edge per declaration, and a placeholder node plus imports
// edge per resolvable relative import.
func (a *Analyzer) analyzeFile(ctx context.Context, ref github.RepositoryRef, filePath string) error {
	content, err := a.fetchWithRetry(ctx, ref, filePath)
	if err != nil {
		return err
	}

	parsed, err := treesitter.Parse(filePath, []byte(content))
	if err != nil {
		return err
	}

	fileNode, err := a.graph.UpsertNode(ctx, &models.CodeNode{
		Path:    filePath,
		Type:    models.NodeTypeFile,
		Name:    path.Base(filePath),
		Content: content,
	})
	if err != nil {
		return err
	}

	for _, decl := range parsed.Declarations {
		declNode, err := a.graph.UpsertNode(ctx, &models.CodeNode{
			Path:    models.DeclarationID(filePath, decl.Name),
			Type:    declarationNodeType(decl.Kind),
			Name:    decl.Name,
			Content: decl.Text,
		})
		if err != nil {
			return err
		}

		if _, err := a.graph.UpsertEdge(ctx, fileNode.ID, declNode.ID, models.EdgeTypeContains, nil); err != nil {
			return err
		}
	}

	for _, imp := range parsed.Imports {
		resolved, ok := treesitter.ResolveImport(filePath, imp.Specifier)
		if !ok {
			// Bare package specifiers stay out of the file graph
			continue
		}

		targetNode, err := a.graph.UpsertPlaceholderFile(ctx, resolved)
		if err != nil {
			return err
		}

		metadata := map[string]string{"specifier": imp.Specifier}
		if _, err := a.graph.UpsertEdge(ctx, fileNode.ID, targetNode.ID, models.EdgeTypeImports, metadata); err != nil {
			return err
		}
	}

	return nil
}

// fetchWithRetry fetches file content with bounded retries and a fixed
// backoff between attempts
func (a *Analyzer) fetchWithRetry(ctx context.Context, ref github.RepositoryRef, filePath string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= a.cfg.FetchRetries; attempt++ {
		content, err := a.fetcher.GetFileContent(ctx, ref, filePath)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if attempt < a.cfg.FetchRetries {
			backoff := a.cfg.RetryBackoff
			if github.IsRateLimit(err) {
				// Rate-limit rejections need more room than transient failures
				backoff *= 2
			}
			a.logger.WithError(err).WithFields(logrus.Fields{
				"path":    filePath,
				"attempt": attempt,
			}).Debug("fetch failed, retrying")
			if err := sleepCtx(ctx, backoff); err != nil {
				return "", err
			}
		}
	}
	return "", lastErr
}

func declarationNodeType(kind treesitter.DeclarationKind) models.NodeType {
	if kind == treesitter.DeclarationClass {
		return models.NodeTypeClass
	}
	return models.NodeTypeFunction
}

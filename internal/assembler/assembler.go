package assembler

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghulammurtaza27/debugmaster/internal/ai"
	"github.com/ghulammurtaza27/debugmaster/internal/cache"
	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/graph"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
	"github.com/ghulammurtaza27/debugmaster/internal/treesitter"
)

// Assembler builds a ranked, chunked context bundle for one defect report.
// It reads the populated graph first and falls back to live fetches through
// the source client when graph data is insufficient. Any unexpected failure
// resolves to the fallback builder; BuildContext always returns a bundle.
type Assembler struct {
	source   github.ContentSource
	graph    *graph.Service
	mentions ai.MentionExtractor
	cache    cache.ContentCache
	scorer   Scorer
	cfg      config.ContextConfig
	logger   *logrus.Logger
}

// NewAssembler creates a context assembler
func NewAssembler(source github.ContentSource, graphSvc *graph.Service, mentions ai.MentionExtractor, contentCache cache.ContentCache, cfg config.ContextConfig, logger *logrus.Logger) *Assembler {
	if cfg.PreferredChunkSize <= 0 {
		cfg.PreferredChunkSize = 1000
	}
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = 3
	}
	return &Assembler{
		source:   source,
		graph:    graphSvc,
		mentions: mentions,
		cache:    contentCache,
		scorer:   HeuristicScorer{},
		cfg:      cfg,
		logger:   logger,
	}
}

// WithScorer swaps the relevance heuristic; used by tests and tuning
func (a *Assembler) WithScorer(scorer Scorer) *Assembler {
	a.scorer = scorer
	return a
}

// BuildContext assembles the context bundle for a defect report. It never
// returns an error: assembly failures, including panics from deep inside
// the pipeline, degrade to the fallback bundle.
func (a *Assembler) BuildContext(ctx context.Context, ref github.RepositoryRef, issue *models.Issue) (bundle *models.ContextBundle) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", r).Error("context assembly panicked, using fallback")
			bundle = BuildFallback(issue, fmt.Errorf("context assembly panic: %v", r))
		}
	}()

	assembled, err := a.assemble(ctx, ref, issue)
	if err != nil {
		a.logger.WithError(err).Warn("context assembly failed, using fallback")
		return BuildFallback(issue, err)
	}
	return assembled
}

func (a *Assembler) assemble(ctx context.Context, ref github.RepositoryRef, issue *models.Issue) (*models.ContextBundle, error) {
	if issue == nil {
		return nil, fmt.Errorf("no defect report")
	}

	meta := models.BundleMetadata{
		GeneratedAt: time.Now().UTC(),
		RepoID:      issue.RepoID(),
		Labels:      issue.Labels,
		IssueURL:    issue.URL,
	}

	set := a.discoverCandidates(ctx, ref, issue, &meta)
	candidates := set.candidates()

	contents := make(map[string]string, len(candidates))
	for _, c := range candidates {
		content, err := a.fetchContent(ctx, ref, c.path)
		if err != nil {
			a.logger.WithError(err).WithField("path", c.path).Debug("candidate content unavailable")
			continue
		}
		contents[c.path] = content
	}

	structure, relationships, packageDeps := a.buildStructure(candidates, contents)
	for _, c := range candidates {
		c.signals.DependencyCount = len(structure.Dependencies[c.path])
		c.signals.DependentCount = len(structure.Dependents[c.path])
	}

	var files []models.ContextFile
	for _, c := range candidates {
		content, ok := contents[c.path]
		if !ok {
			continue
		}

		relevance := a.scorer.Score(c.signals)
		budget := chunkBudget(relevance, a.cfg.MaxChunks)
		for _, chunk := range SplitIntoChunks(content, a.cfg.PreferredChunkSize, budget) {
			files = append(files, models.ContextFile{
				Path:      c.path,
				Content:   chunk,
				Relevance: relevance,
			})
		}

		if testPath, testContent, found := a.associatedTestFile(ctx, ref, c.path); found {
			files = append(files, models.ContextFile{
				Path:      testPath,
				Content:   testContent,
				Relevance: 0.7,
			})
			structure.TestCoverage[c.path] = testPath
		}
	}

	// Zero discovered files: synthesize context from the report itself so
	// the bundle is never empty
	if len(files) == 0 {
		files = append(files, issueContextEntry(issue))
		if issue.RepoID() != "" {
			files = append(files, models.ContextFile{
				Path:      "repository-info.md",
				Content:   fmt.Sprintf("Repository: %s\nIssue: #%d\nURL: %s", issue.RepoID(), issue.Number, issue.URL),
				Relevance: 0.8,
			})
		}
		for i, snippet := range issue.CodeSnippets {
			files = append(files, models.ContextFile{
				Path:      fmt.Sprintf("snippet-%d.txt", i+1),
				Content:   snippet,
				Relevance: 0.9,
			})
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Relevance > files[j].Relevance
	})

	meta.TotalFiles = distinctPaths(files)
	return &models.ContextBundle{
		Files:               files,
		Relationships:       relationships,
		ProjectStructure:    structure,
		PackageDependencies: packageDeps,
		Metadata:            meta,
	}, nil
}

// distinctPaths counts the files in a bundle, treating multiple chunks of
// the same file as one
func distinctPaths(files []models.ContextFile) int {
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.Path] = struct{}{}
	}
	return len(seen)
}

// buildStructure derives the dependency map, its inverse, the component
// hierarchy, and the declared package dependencies from candidate contents
func (a *Assembler) buildStructure(candidates []*candidate, contents map[string]string) (models.ProjectStructure, []models.Relationship, models.PackageDependencies) {
	structure := models.ProjectStructure{
		Hierarchy:    map[string][]string{},
		Dependencies: map[string][]string{},
		Dependents:   map[string][]string{},
		TestCoverage: map[string]string{},
	}
	packageDeps := models.PackageDependencies{
		Dependencies:     map[string]string{},
		DevDependencies:  map[string]string{},
		PeerDependencies: map[string]string{},
	}
	var relationships []models.Relationship

	known := make(map[string]string, len(contents))
	for p := range contents {
		known[p] = p
	}

	for _, c := range candidates {
		content, ok := contents[c.path]
		if !ok {
			continue
		}

		if path.Base(c.path) == "package.json" {
			if deps, err := parsePackageDependencies(content); err == nil {
				packageDeps = deps
			}
			continue
		}

		if related := extractHierarchy(c.path, content); len(related) > 0 {
			structure.Hierarchy[c.path] = related
			for _, name := range related {
				relationships = append(relationships, models.Relationship{
					Source:       c.path,
					Relationship: "extends",
					Target:       name,
				})
			}
		}

		parsed, err := treesitter.Parse(c.path, []byte(content))
		if err != nil {
			continue
		}
		for _, imp := range parsed.Imports {
			resolved, ok := treesitter.ResolveImport(c.path, imp.Specifier)
			if !ok {
				continue
			}
			target := matchKnownFile(resolved, known)
			structure.Dependencies[c.path] = append(structure.Dependencies[c.path], target)
			structure.Dependents[target] = append(structure.Dependents[target], c.path)
			relationships = append(relationships, models.Relationship{
				Source:       c.path,
				Relationship: "imports",
				Target:       target,
			})
		}
	}

	return structure, relationships, packageDeps
}

// matchKnownFile maps an extensionless resolved import onto a known
// candidate file when possible, keeping the dependency maps keyed by real
// paths
func matchKnownFile(resolved string, known map[string]string) string {
	for _, candidate := range treesitter.CandidatePaths(resolved) {
		if real, ok := known[candidate]; ok {
			return real
		}
	}
	return resolved
}

// fetchContent resolves file content: cache, then the populated graph,
// then a live fetch through the source client
func (a *Assembler) fetchContent(ctx context.Context, ref github.RepositoryRef, filePath string) (string, error) {
	key := cache.Key(ref.ID(), ref.Ref, filePath)
	if content, ok := a.cache.Get(ctx, key); ok {
		return content, nil
	}

	if node, err := a.graph.FindFileNode(ctx, filePath); err == nil && node.Content != "" {
		return node.Content, nil
	}

	content, err := a.source.GetFileContent(ctx, ref, filePath)
	if err != nil {
		return "", err
	}
	a.cache.Set(ctx, key, content)
	return content, nil
}

// associatedTestFile probes for a conventionally-named test file next to a
// candidate
func (a *Assembler) associatedTestFile(ctx context.Context, ref github.RepositoryRef, filePath string) (string, string, bool) {
	for _, testPath := range testFileCandidates(filePath) {
		exists, err := a.source.FileExists(ctx, ref, testPath)
		if err != nil || !exists {
			continue
		}
		content, err := a.fetchContent(ctx, ref, testPath)
		if err != nil {
			continue
		}
		return testPath, content, true
	}
	return "", "", false
}

// testFileCandidates lists conventional test-file names derived from a
// source path by suffix substitution
func testFileCandidates(filePath string) []string {
	ext := path.Ext(filePath)
	if ext == "" {
		return nil
	}
	stem := strings.TrimSuffix(filePath, ext)

	if ext == ".py" || ext == ".pyi" {
		dir, base := path.Split(stem)
		return []string{
			dir + "test_" + base + ".py",
			dir + base + "_test.py",
		}
	}
	return []string{
		stem + ".test" + ext,
		stem + ".spec" + ext,
	}
}

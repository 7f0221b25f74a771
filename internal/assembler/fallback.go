package assembler

import (
	"fmt"
	"time"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// BuildFallback constructs a minimal context bundle from data already
// attached to the defect report. It performs no I/O and never fails; the
// worst case is a bundle holding only the issue-context entry.
func BuildFallback(issue *models.Issue, cause error) *models.ContextBundle {
	bundle := &models.ContextBundle{
		Files:         []models.ContextFile{},
		Relationships: []models.Relationship{},
		ProjectStructure: models.ProjectStructure{
			Hierarchy:    map[string][]string{},
			Dependencies: map[string][]string{},
			Dependents:   map[string][]string{},
			TestCoverage: map[string]string{},
		},
		PackageDependencies: models.PackageDependencies{
			Dependencies:     map[string]string{},
			DevDependencies:  map[string]string{},
			PeerDependencies: map[string]string{},
		},
		Metadata: models.BundleMetadata{
			GeneratedAt: time.Now().UTC(),
			Fallback:    true,
		},
	}
	if cause != nil {
		bundle.Metadata.Error = cause.Error()
	}
	if issue == nil {
		bundle.Files = append(bundle.Files, models.ContextFile{
			Path:      "issue-context.md",
			Content:   "No defect report data available.",
			Relevance: 1.0,
		})
		bundle.Metadata.TotalFiles = distinctPaths(bundle.Files)
		return bundle
	}

	bundle.Metadata.RepoID = issue.RepoID()
	bundle.Metadata.Labels = issue.Labels
	bundle.Metadata.IssueURL = issue.URL

	bundle.Files = append(bundle.Files, issueContextEntry(issue))

	if issue.RepoID() != "" {
		bundle.Files = append(bundle.Files, models.ContextFile{
			Path:      "repository-info.md",
			Content:   fmt.Sprintf("Repository: %s\nIssue: #%d\nURL: %s", issue.RepoID(), issue.Number, issue.URL),
			Relevance: 0.8,
		})
	}

	for i, snippet := range issue.CodeSnippets {
		bundle.Files = append(bundle.Files, models.ContextFile{
			Path:      fmt.Sprintf("snippet-%d.txt", i+1),
			Content:   snippet,
			Relevance: 0.9,
		})
	}

	bundle.Metadata.TotalFiles = distinctPaths(bundle.Files)
	return bundle
}

// issueContextEntry renders the defect report itself as a context entry
func issueContextEntry(issue *models.Issue) models.ContextFile {
	content := fmt.Sprintf("# %s\n", issue.Title)
	if issue.RepoID() != "" {
		content += fmt.Sprintf("\nRepository: %s\n", issue.RepoID())
	}
	if issue.Body != "" {
		content += "\n" + issue.Body + "\n"
	}
	return models.ContextFile{
		Path:      "issue-context.md",
		Content:   content,
		Relevance: 1.0,
	}
}

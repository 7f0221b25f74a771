package models

import (
	"time"
)

// NodeType classifies a structural fact discovered by the analyzer
type NodeType string

const (
	NodeTypeFile     NodeType = "file"
	NodeTypeFunction NodeType = "function"
	NodeTypeClass    NodeType = "class"
)

// EdgeType classifies a directed relationship between two code nodes.
// The analyzer emits imports and contains; calls and extends are reserved
// for future extraction passes.
type EdgeType string

const (
	EdgeTypeImports  EdgeType = "imports"
	EdgeTypeContains EdgeType = "contains"
	EdgeTypeCalls    EdgeType = "calls"
	EdgeTypeExtends  EdgeType = "extends"
)

// DeclarationID builds the composite key used for function and class nodes.
// Declarations are scoped under their file as "<filePath>#<name>"; edge
// creation and lookups depend on this exact format.
func DeclarationID(filePath, name string) string {
	return filePath + "#" + name
}

// CodeNode represents a persisted structural fact (file, function, or class)
type CodeNode struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	Type      NodeType  `json:"type" db:"type"`
	Name      string    `json:"name" db:"name"`
	Content   string    `json:"content,omitempty" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CodeEdge represents a persisted directed relationship between two code nodes
type CodeEdge struct {
	ID        string            `json:"id" db:"id"`
	SourceID  string            `json:"source_id" db:"source_id"`
	TargetID  string            `json:"target_id" db:"target_id"`
	Type      EdgeType          `json:"type" db:"type"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// Issue is a defect report resolved from the repository host
type Issue struct {
	ID           int       `json:"id"`
	Number       int       `json:"number"`
	Owner        string    `json:"owner"`
	Repo         string    `json:"repo"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Labels       []string  `json:"labels"`
	StackTrace   string    `json:"stack_trace,omitempty"`
	CodeSnippets []string  `json:"code_snippets,omitempty"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
}

// RepoID returns the canonical "owner/name" repository identifier
func (i *Issue) RepoID() string {
	if i.Owner == "" && i.Repo == "" {
		return ""
	}
	return i.Owner + "/" + i.Repo
}

// ContextFile is one ranked entry in a context bundle
type ContextFile struct {
	Path      string  `json:"path"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

// Relationship is a dependency fact included in a context bundle
type Relationship struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Target       string `json:"target"`
}

// ProjectStructure summarizes how the candidate files relate to each other
type ProjectStructure struct {
	Hierarchy    map[string][]string `json:"hierarchy"`
	Dependencies map[string][]string `json:"dependencies"`
	Dependents   map[string][]string `json:"dependents"`
	TestCoverage map[string]string   `json:"test_coverage"`
}

// PackageDependencies holds the declared dependency maps from the package manifest
type PackageDependencies struct {
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"dev_dependencies"`
	PeerDependencies map[string]string `json:"peer_dependencies"`
}

// BundleMetadata carries discovery counts and defect descriptors.
// TotalFiles counts distinct file paths; a file split across several
// chunk entries counts once.
type BundleMetadata struct {
	TotalFiles     int       `json:"total_files"`
	FromStackTrace int       `json:"from_stack_trace"`
	FromMentions   int       `json:"from_mentions"`
	GeneratedAt    time.Time `json:"generated_at"`
	RepoID         string    `json:"repo_id,omitempty"`
	Labels         []string  `json:"labels,omitempty"`
	IssueURL       string    `json:"issue_url,omitempty"`
	Fallback       bool      `json:"fallback,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// ContextBundle is the ranked, chunked collection of files and metadata
// assembled for one defect report. Bundles are built fresh per request and
// never persisted; relevance scores are only comparable within one bundle.
type ContextBundle struct {
	Files               []ContextFile       `json:"files"`
	Relationships       []Relationship      `json:"relationships"`
	ProjectStructure    ProjectStructure    `json:"project_structure"`
	PackageDependencies PackageDependencies `json:"package_dependencies"`
	Metadata            BundleMetadata      `json:"metadata"`
}

// GraphSnapshot is the read-only projection of current graph state
type GraphSnapshot struct {
	Nodes       []*CodeNode `json:"nodes"`
	Edges       []*CodeEdge `json:"edges"`
	IsAnalyzing bool        `json:"is_analyzing"`
}

// AnalysisResult aggregates per-file outcomes of a repository analysis run
type AnalysisResult struct {
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Duration     time.Duration `json:"duration"`
}

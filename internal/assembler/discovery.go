package assembler

import (
	"context"
	"regexp"
	"strings"

	"github.com/ghulammurtaza27/debugmaster/internal/github"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// stackFramePattern matches "at <frame> (<path>:<line>:<col>)" and the
// bare "at <path>:<line>:<col>" variant
var stackFramePattern = regexp.MustCompile(`at\s+(?:[\w$.<>\[\] ]+\s+)?\(?([^\s()]+?):(\d+):(\d+)\)?`)

// Configuration files probed during candidate discovery. Kept small: these
// are the files a debugging session most often needs for build and tooling
// context.
var configFilenames = []string{
	"package.json",
	"tsconfig.json",
	"webpack.config.js",
	"vite.config.ts",
	".env",
	".eslintrc.json",
	"tailwind.config.js",
	"pyproject.toml",
}

// candidate tracks one discovered path and the signals that produced it
type candidate struct {
	path    string
	signals CandidateSignals
}

// candidateSet merges discovery sources, deduplicating by path while
// accumulating signals
type candidateSet struct {
	order []string
	byPath map[string]*candidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byPath: make(map[string]*candidate)}
}

func (s *candidateSet) add(path string, mark func(*CandidateSignals)) {
	c, ok := s.byPath[path]
	if !ok {
		c = &candidate{path: path}
		s.byPath[path] = c
		s.order = append(s.order, path)
	}
	mark(&c.signals)
}

func (s *candidateSet) candidates() []*candidate {
	out := make([]*candidate, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, s.byPath[path])
	}
	return out
}

// filesFromStackTrace extracts repository paths from a stack trace,
// excluding dependency-cache frames
func filesFromStackTrace(stackTrace string) []string {
	if stackTrace == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, match := range stackFramePattern.FindAllStringSubmatch(stackTrace, -1) {
		path := normalizeFramePath(match[1])
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}

// normalizeFramePath cleans a stack-frame path to a repository-relative
// form, or returns "" for frames outside the repository
func normalizeFramePath(raw string) string {
	path := strings.TrimPrefix(raw, "file://")
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		return ""
	}
	if strings.Contains(path, "node_modules/") {
		return ""
	}
	// Runtime-internal frames carry no repository path
	if strings.HasPrefix(path, "node:") {
		return ""
	}
	return path
}

// discoverConfigFiles probes the fixed configuration filename list and
// returns the ones present in the repository
func (a *Assembler) discoverConfigFiles(ctx context.Context, ref github.RepositoryRef) []string {
	var found []string
	for _, name := range configFilenames {
		exists, err := a.source.FileExists(ctx, ref, name)
		if err != nil {
			a.logger.WithError(err).WithField("path", name).Debug("config probe failed")
			continue
		}
		if exists {
			found = append(found, name)
		}
	}
	return found
}

// discoverCandidates merges the three discovery sources into a deduplicated
// candidate set and records per-source counts in the metadata
func (a *Assembler) discoverCandidates(ctx context.Context, ref github.RepositoryRef, issue *models.Issue, meta *models.BundleMetadata) *candidateSet {
	set := newCandidateSet()

	traced := filesFromStackTrace(issue.StackTrace)
	for _, path := range traced {
		set.add(path, func(s *CandidateSignals) { s.FromStackTrace = true })
	}
	meta.FromStackTrace = len(traced)

	mentioned := a.mentions.ExtractMentions(ctx, issue)
	counted := 0
	for _, mention := range mentioned {
		path := strings.TrimPrefix(strings.TrimSpace(mention), "./")
		if path == "" || !looksLikePath(path) {
			continue
		}
		counted++
		set.add(path, func(s *CandidateSignals) { s.FromMentions = true })
	}
	meta.FromMentions = counted

	for _, path := range a.discoverConfigFiles(ctx, ref) {
		set.add(path, func(s *CandidateSignals) { s.IsConfigFile = true })
	}

	return set
}

// looksLikePath filters mention-extraction output down to plausible file
// paths; bare symbol names are dropped here and only help via the prompt
func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, ".")
}

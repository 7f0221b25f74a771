package ingestion

import (
	"path"
	"strings"
)

// Directories that never contain first-party analyzable source. Matched
// against every path segment, so "packages/app/node_modules/x.ts" is
// excluded too.
var excludedDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"out":          {},
	".git":         {},
	".next":        {},
	".nuxt":        {},
	".cache":       {},
	"coverage":     {},
	"__pycache__":  {},
	"__mocks__":    {},
	"__tests__":    {},
	"test":         {},
	"tests":        {},
	"spec":         {},
	"fixtures":     {},
	"examples":     {},
	"docs":         {},
}

// Filename suffixes excluded regardless of directory. Test files are
// skipped here so the graph only carries production code; they re-enter
// during context assembly through test-file association.
var excludedSuffixes = []string{
	".d.ts",
	".min.js",
	".bundle.js",
}

var excludedInfixes = []string{
	".test.",
	".spec.",
}

// Extensions the syntax parser can handle
var analyzableExtensions = map[string]struct{}{
	".js":  {},
	".jsx": {},
	".mjs": {},
	".cjs": {},
	".ts":  {},
	".mts": {},
	".cts": {},
	".tsx": {},
	".py":  {},
	".pyi": {},
}

// IsAnalyzable decides whether a repository path should be parsed and
// entered into the structural graph. It is a pure, total function over the
// path string: no file content is consulted.
func IsAnalyzable(filePath string) bool {
	if filePath == "" {
		return false
	}

	segments := strings.Split(filePath, "/")
	for _, segment := range segments[:len(segments)-1] {
		if _, excluded := excludedDirs[strings.ToLower(segment)]; excluded {
			return false
		}
	}

	name := strings.ToLower(path.Base(filePath))
	for _, suffix := range excludedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	for _, infix := range excludedInfixes {
		if strings.Contains(name, infix) {
			return false
		}
	}

	_, ok := analyzableExtensions[path.Ext(name)]
	return ok
}

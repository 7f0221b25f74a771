package treesitter

import (
	"path"
	"strings"
)

// ResolveImport resolves a relative import specifier against the importing
// file's directory, returning a normalized repository-relative path. Bare
// package specifiers and paths escaping the repository root return false;
// nothing beyond path joining is attempted.
func ResolveImport(fromPath, specifier string) (string, bool) {
	if !isRelativeSpecifier(specifier) {
		return "", false
	}

	resolved := path.Clean(path.Join(path.Dir(fromPath), specifier))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", false
	}
	if resolved == "." {
		return "", false
	}
	return resolved, true
}

func isRelativeSpecifier(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

var candidateExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// CandidatePaths lists the concrete files an extensionless resolved import
// may refer to, in resolution-preference order. Used when matching imports
// against a known file set; an import that already carries an extension maps
// to itself.
func CandidatePaths(resolved string) []string {
	if path.Ext(resolved) != "" {
		return []string{resolved}
	}

	candidates := make([]string, 0, 2*len(candidateExtensions)+1)
	for _, ext := range candidateExtensions {
		candidates = append(candidates, resolved+ext)
	}
	for _, ext := range candidateExtensions {
		candidates = append(candidates, path.Join(resolved, "index"+ext))
	}
	candidates = append(candidates, resolved)
	return candidates
}

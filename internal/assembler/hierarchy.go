package assembler

import (
	"regexp"
	"strings"
)

// Pattern-based relationship extraction. Textual on purpose: full type
// resolution is out of scope, a debugging context only needs the names.
var (
	extendsPattern    = regexp.MustCompile(`class\s+(\w+)(?:<[^>]*>)?\s+extends\s+([\w.]+)`)
	implementsPattern = regexp.MustCompile(`class\s+(\w+)(?:<[^>]*>)?(?:\s+extends\s+[\w.<>]+)?\s+implements\s+([\w.,\s]+)`)
	pythonBasePattern = regexp.MustCompile(`(?m)^class\s+(\w+)\(([^)]+)\):`)
)

// extractHierarchy pulls class-extension and interface-implementation
// names out of source text
func extractHierarchy(path, content string) []string {
	var related []string
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || name == "object" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		related = append(related, name)
	}

	if strings.HasSuffix(path, ".py") || strings.HasSuffix(path, ".pyi") {
		for _, match := range pythonBasePattern.FindAllStringSubmatch(content, -1) {
			for _, base := range strings.Split(match[2], ",") {
				// Strip keyword arguments like metaclass=ABCMeta
				if strings.Contains(base, "=") {
					continue
				}
				add(base)
			}
		}
		return related
	}

	for _, match := range extendsPattern.FindAllStringSubmatch(content, -1) {
		add(match[2])
	}
	for _, match := range implementsPattern.FindAllStringSubmatch(content, -1) {
		for _, iface := range strings.Split(match[2], ",") {
			add(iface)
		}
	}
	return related
}

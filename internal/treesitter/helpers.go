package treesitter

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// getNodeText extracts text from a node using byte offsets
func getNodeText(node *sitter.Node, code []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if int(end) > len(code) {
		end = uint(len(code))
	}
	return string(code[start:end])
}

// addDeclaration appends a declaration with its exact source span.
// Declarations without a resolvable name are dropped.
func addDeclaration(result *ParseResult, kind DeclarationKind, name string, node *sitter.Node, code []byte) {
	if name == "" {
		return
	}
	result.Declarations = append(result.Declarations, Declaration{
		Kind:      kind,
		Name:      name,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		Text:      getNodeText(node, code),
	})
}

// addImport appends an import with its raw module specifier, quotes stripped
func addImport(result *ParseResult, specifier string, node *sitter.Node) {
	specifier = strings.Trim(specifier, "\"'`")
	if specifier == "" {
		return
	}
	result.Imports = append(result.Imports, Import{
		Specifier: specifier,
		StartLine: int(node.StartPosition().Row) + 1,
	})
}

// findParentClassName traverses up to find the containing class name
func findParentClassName(node *sitter.Node, code []byte, classKinds ...string) string {
	current := node.Parent()
	for current != nil {
		for _, kind := range classKinds {
			if current.Kind() == kind {
				nameNode := current.ChildByFieldName("name")
				if nameNode != nil {
					return getNodeText(nameNode, code)
				}
			}
		}
		current = current.Parent()
	}
	return ""
}

package treesitter

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractPython walks a Python AST collecting declarations and imports
func extractPython(root *sitter.Node, code []byte, result *ParseResult) {
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}

		switch node.Kind() {
		case "function_definition":
			name := getNodeText(node.ChildByFieldName("name"), code)
			if className := findParentClassName(node, code, "class_definition"); className != "" && name != "" {
				name = fmt.Sprintf("%s.%s", className, name)
			}
			addDeclaration(result, DeclarationFunction, name, node, code)

		case "class_definition":
			name := getNodeText(node.ChildByFieldName("name"), code)
			addDeclaration(result, DeclarationClass, name, node, code)

		case "import_statement":
			extractPythonImport(node, code, result)

		case "import_from_statement":
			module := node.ChildByFieldName("module_name")
			if module != nil {
				addImport(result, getNodeText(module, code), node)
			}
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
}

// extractPythonImport records each dotted name of an `import a, b.c` statement
func extractPythonImport(node *sitter.Node, code []byte, result *ParseResult) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			addImport(result, getNodeText(child, code), node)
		case "aliased_import":
			name := child.ChildByFieldName("name")
			if name != nil {
				addImport(result, getNodeText(name, code), node)
			}
		}
	}
}

package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractTypeScript walks a TypeScript AST collecting declarations and imports.
// TypeScript shares most node kinds with JavaScript but adds interfaces,
// type aliases, and abstract classes; interfaces and type aliases are
// recorded as classes for graph purposes.
func extractTypeScript(root *sitter.Node, code []byte, result *ParseResult) {
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}

		switch node.Kind() {
		case "function_declaration", "generator_function_declaration":
			name := getNodeText(node.ChildByFieldName("name"), code)
			addDeclaration(result, DeclarationFunction, name, node, code)

		case "class_declaration", "abstract_class_declaration":
			name := getNodeText(node.ChildByFieldName("name"), code)
			addDeclaration(result, DeclarationClass, name, node, code)

		case "interface_declaration", "type_alias_declaration":
			name := getNodeText(node.ChildByFieldName("name"), code)
			addDeclaration(result, DeclarationClass, name, node, code)

		case "variable_declarator":
			extractBoundFunction(node, code, result)

		case "method_definition", "method_signature":
			extractMethod(node, code, result, "class_declaration", "abstract_class_declaration")

		case "import_statement":
			source := node.ChildByFieldName("source")
			if source != nil {
				addImport(result, getNodeText(source, code), node)
			}

		case "call_expression":
			extractRequireCall(node, code, result)
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
}

package treesitter

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractJavaScript walks a JavaScript AST collecting declarations and imports
func extractJavaScript(root *sitter.Node, code []byte, result *ParseResult) {
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}

		switch node.Kind() {
		case "function_declaration", "generator_function_declaration":
			name := getNodeText(node.ChildByFieldName("name"), code)
			addDeclaration(result, DeclarationFunction, name, node, code)

		case "class_declaration":
			name := getNodeText(node.ChildByFieldName("name"), code)
			addDeclaration(result, DeclarationClass, name, node, code)

		case "variable_declarator":
			extractBoundFunction(node, code, result)

		case "method_definition":
			extractMethod(node, code, result, "class_declaration")

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

// extractBoundFunction handles `const f = () => {}` and
// `const f = function () {}` bindings. Anonymous function values without a
// binding produce nothing.
func extractBoundFunction(declarator *sitter.Node, code []byte, result *ParseResult) {
	value := declarator.ChildByFieldName("value")
	if value == nil {
		return
	}
	kind := value.Kind()
	if kind != "arrow_function" && kind != "function_expression" && kind != "generator_function" {
		return
	}

	name := getNodeText(declarator.ChildByFieldName("name"), code)
	addDeclaration(result, DeclarationFunction, name, declarator, code)
}

// extractMethod records a class method as "<Class>.<method>"
func extractMethod(node *sitter.Node, code []byte, result *ParseResult, classKinds ...string) {
	name := getNodeText(node.ChildByFieldName("name"), code)
	if name == "" {
		return
	}
	if className := findParentClassName(node, code, classKinds...); className != "" {
		name = fmt.Sprintf("%s.%s", className, name)
	}
	addDeclaration(result, DeclarationFunction, name, node, code)
}

// extractRequireCall records CommonJS `require("module")` imports
func extractRequireCall(node *sitter.Node, code []byte, result *ParseResult) {
	fn := node.ChildByFieldName("function")
	if fn == nil || getNodeText(fn, code) != "require" {
		return
	}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg != nil && arg.Kind() == "string" {
			addImport(result, getNodeText(arg, code), node)
			return
		}
	}
}

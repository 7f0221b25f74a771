package treesitter

import (
	"fmt"
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// LanguageParser wraps a tree-sitter parser with a language grammar.
// IMPORTANT: Always call Close() to prevent memory leaks (CGO requirement)
type LanguageParser struct {
	parser   *sitter.Parser
	langName string
}

// NewLanguageParser creates a parser for the specified language.
// Supported languages: javascript, typescript, python.
func NewLanguageParser(lang string) (*LanguageParser, error) {
	parser := sitter.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create tree-sitter parser")
	}

	var language *sitter.Language
	switch lang {
	case "javascript", "jsx":
		language = sitter.NewLanguage(tree_sitter_javascript.Language())
	case "typescript":
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case "tsx":
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	case "python":
		language = sitter.NewLanguage(tree_sitter_python.Language())
	default:
		parser.Close()
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	if err := parser.SetLanguage(language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	return &LanguageParser{
		parser:   parser,
		langName: lang,
	}, nil
}

// Close releases parser resources (REQUIRED - CGO memory management)
func (lp *LanguageParser) Close() {
	if lp.parser != nil {
		lp.parser.Close()
	}
}

// Parse parses source text and extracts declarations and imports.
// Tree-sitter runs in error-recovery mode: malformed constructs become ERROR
// nodes and extraction proceeds over whatever subtree parsed. Only a total
// parse abort (nil tree) is returned as an error.
func Parse(path string, content []byte) (*ParseResult, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}

	lp, err := NewLanguageParser(lang)
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}
	defer lp.Close()

	tree := lp.parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse aborted for %s", path)
	}
	defer tree.Close()

	result := &ParseResult{
		Path:     path,
		Language: lang,
	}

	root := tree.RootNode()
	switch lang {
	case "javascript", "jsx":
		extractJavaScript(root, content, result)
	case "typescript", "tsx":
		extractTypeScript(root, content, result)
	case "python":
		extractPython(root, content, result)
	}

	return result, nil
}

// DetectLanguage returns the language identifier for a file path, or ""
// when the extension is not handled
func DetectLanguage(path string) string {
	langMap := map[string]string{
		".js":  "javascript",
		".jsx": "jsx",
		".mjs": "javascript",
		".cjs": "javascript",
		".ts":  "typescript",
		".mts": "typescript",
		".cts": "typescript",
		".tsx": "tsx",
		".py":  "python",
		".pyi": "python",
	}
	return langMap[filepath.Ext(path)]
}

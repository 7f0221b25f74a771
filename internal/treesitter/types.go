package treesitter

// DeclarationKind classifies an extracted declaration
type DeclarationKind string

const (
	DeclarationFunction DeclarationKind = "function"
	DeclarationClass    DeclarationKind = "class"
)

// Declaration is a named function or class extracted from a source file.
// Text holds the exact source span of the declaration.
type Declaration struct {
	Kind      DeclarationKind
	Name      string
	StartLine int
	EndLine   int
	Text      string
}

// Import is one import statement extracted from a source file.
// Specifier is the raw module path as written in the source.
type Import struct {
	Specifier string
	StartLine int
}

// ParseResult holds everything extracted from one file
type ParseResult struct {
	Path         string
	Language     string
	Declarations []Declaration
	Imports      []Import
}

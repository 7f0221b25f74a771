package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAnalyzable(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"typescript source", "src/a.ts", true},
		{"dependency cache", "node_modules/x.ts", false},
		{"test file", "a.test.ts", false},
		{"type declarations", "src/b.d.ts", false},
		{"markdown", "docs/readme.md", false},
		{"javascript source", "lib/util.js", true},
		{"jsx component", "src/components/App.jsx", true},
		{"python module", "app/models.py", true},
		{"spec file", "src/thing.spec.js", false},
		{"minified bundle", "static/vendor.min.js", false},
		{"nested dependency cache", "packages/core/node_modules/dep/index.js", false},
		{"build output", "dist/index.js", false},
		{"tests directory", "tests/helpers.py", false},
		{"mocks directory", "src/__mocks__/api.ts", false},
		{"fixture", "fixtures/sample.ts", false},
		{"no extension", "Makefile", false},
		{"empty path", "", false},
		{"directory named like a test file is not a dir segment", "src/attest/run.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnalyzable(tt.path))
		})
	}
}

func TestIsAnalyzableMixedInputs(t *testing.T) {
	inputs := []string{"src/a.ts", "node_modules/x.ts", "a.test.ts", "src/b.d.ts", "docs/readme.md"}

	var accepted []string
	for _, path := range inputs {
		if IsAnalyzable(path) {
			accepted = append(accepted, path)
		}
	}

	assert.Equal(t, []string{"src/a.ts"}, accepted)
}

package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMentions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain array", `["src/a.ts", "src/b.ts"]`, []string{"src/a.ts", "src/b.ts"}},
		{"fenced json block", "```json\n[\"src/a.ts\"]\n```", []string{"src/a.ts"}},
		{"bare fence", "```\n[\"src/a.ts\"]\n```", []string{"src/a.ts"}},
		{"empty array", `[]`, nil},
		{"blank entries dropped", `["", "  ", "src/a.ts"]`, []string{"src/a.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMentions(tt.raw)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeMentionsMalformed(t *testing.T) {
	_, err := decodeMentions("I could not find any files, sorry!")
	assert.Error(t, err)
}

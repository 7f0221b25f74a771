package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilesFromStackTrace(t *testing.T) {
	trace := `at submitOrder (src/orders.ts:42:13)
at handleClick (src/components/Button.tsx:17:9)
at renderWithHooks (node_modules/react-dom/index.js:100:1)
at process.processTicksAndRejections (node:internal/process/task_queues:95:5)
at src/orders.ts:50:1`

	paths := filesFromStackTrace(trace)
	assert.Equal(t, []string{"src/orders.ts", "src/components/Button.tsx"}, paths)
}

func TestFilesFromStackTraceEmpty(t *testing.T) {
	assert.Empty(t, filesFromStackTrace(""))
	assert.Empty(t, filesFromStackTrace("TypeError: boom, no frames"))
}

func TestNormalizeFramePath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"src/a.ts", "src/a.ts"},
		{"./src/a.ts", "src/a.ts"},
		{"/src/a.ts", "src/a.ts"},
		{"file:///src/a.ts", "src/a.ts"},
		{"node_modules/react/index.js", ""},
		{"node:internal/timers", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeFramePath(tt.raw), tt.raw)
	}
}

func TestCandidateSetMergesSignals(t *testing.T) {
	set := newCandidateSet()
	set.add("src/a.ts", func(s *CandidateSignals) { s.FromStackTrace = true })
	set.add("src/b.ts", func(s *CandidateSignals) { s.FromMentions = true })
	set.add("src/a.ts", func(s *CandidateSignals) { s.FromMentions = true })

	candidates := set.candidates()
	assert.Len(t, candidates, 2)

	assert.Equal(t, "src/a.ts", candidates[0].path)
	assert.True(t, candidates[0].signals.FromStackTrace)
	assert.True(t, candidates[0].signals.FromMentions)

	assert.Equal(t, "src/b.ts", candidates[1].path)
	assert.False(t, candidates[1].signals.FromStackTrace)
}

func TestLooksLikePath(t *testing.T) {
	assert.True(t, looksLikePath("src/a.ts"))
	assert.True(t, looksLikePath("config.json"))
	assert.False(t, looksLikePath("submitOrder"))
}

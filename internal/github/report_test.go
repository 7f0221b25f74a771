package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCodeSnippets(t *testing.T) {
	body := "The app crashes on submit.\n" +
		"```js\n" +
		"submitOrder(null)\n" +
		"```\n" +
		"and also\n" +
		"```\n" +
		"TypeError: Cannot read properties of null\n" +
		"```\n"

	snippets := ExtractCodeSnippets(body)
	assert.Equal(t, []string{
		"submitOrder(null)",
		"TypeError: Cannot read properties of null",
	}, snippets)
}

func TestExtractCodeSnippetsNone(t *testing.T) {
	assert.Empty(t, ExtractCodeSnippets("just text, no fences"))
	assert.Empty(t, ExtractCodeSnippets(""))
}

func TestExtractStackTrace(t *testing.T) {
	body := `The checkout flow crashes:

at submitOrder (src/orders.ts:42:13)
at handleClick (src/components/Button.tsx:17:9)
at processEvent (node_modules/react-dom/index.js:100:1)

Happens every time since the last deploy.
at unrelatedLaterFrame (src/other.ts:1:1)`

	trace := ExtractStackTrace(body)
	assert.Equal(t,
		"at submitOrder (src/orders.ts:42:13)\n"+
			"at handleClick (src/components/Button.tsx:17:9)\n"+
			"at processEvent (node_modules/react-dom/index.js:100:1)",
		trace)
}

func TestExtractStackTraceAbsent(t *testing.T) {
	assert.Empty(t, ExtractStackTrace("no frames here"))
	assert.Empty(t, ExtractStackTrace(""))
}

package assembler

import "strings"

// SplitIntoChunks splits content into at most maxChunks pieces of roughly
// preferredSize characters, breaking at the line boundary nearest each
// target split point. Concatenating the chunks in order reproduces the
// original content exactly; nothing is dropped, so the final chunk absorbs
// any remainder once the chunk budget is spent.
func SplitIntoChunks(content string, preferredSize, maxChunks int) []string {
	if maxChunks < 1 {
		maxChunks = 1
	}
	if preferredSize < 1 || len(content) <= preferredSize || maxChunks == 1 {
		return []string{content}
	}

	var chunks []string
	rest := content
	for len(rest) > preferredSize && len(chunks) < maxChunks-1 {
		cut := nearestLineBreak(rest, preferredSize)
		chunks = append(chunks, rest[:cut])
		rest = rest[cut:]
	}
	// A cut landing on the final byte leaves nothing behind; never emit an
	// empty trailing chunk
	if rest != "" || len(chunks) == 0 {
		chunks = append(chunks, rest)
	}
	return chunks
}

// nearestLineBreak returns the cut position closest to target that falls
// just after a newline, or target itself when the content has no usable
// line boundary
func nearestLineBreak(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	before := strings.LastIndexByte(s[:target], '\n')
	after := strings.IndexByte(s[target:], '\n')

	// Cut after the newline so every chunk but the last ends with one
	bestBefore := -1
	if before >= 0 {
		bestBefore = before + 1
	}
	bestAfter := -1
	if after >= 0 {
		bestAfter = target + after + 1
	}

	switch {
	case bestBefore < 1 && bestAfter < 1:
		return target
	case bestBefore < 1:
		return bestAfter
	case bestAfter < 1:
		return bestBefore
	case target-bestBefore <= bestAfter-target:
		return bestBefore
	default:
		return bestAfter
	}
}

// chunkBudget decides how many chunks a file is allowed based on its
// relevance: highly relevant files may spread across up to maxChunks,
// everything else stays in a single entry
func chunkBudget(relevance float64, maxChunks int) int {
	if relevance > 0.8 {
		return maxChunks
	}
	return 1
}

package github

import (
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n(.*?)```")

// ExtractCodeSnippets pulls fenced code blocks out of an issue body
func ExtractCodeSnippets(body string) []string {
	matches := fencedBlockPattern.FindAllStringSubmatch(body, -1)
	var snippets []string
	for _, m := range matches {
		snippet := strings.TrimRight(m[1], "\n")
		if snippet != "" {
			snippets = append(snippets, snippet)
		}
	}
	return snippets
}

// ExtractStackTrace pulls the first contiguous run of stack frames out of an
// issue body. Frames are lines of the form "at <frame> (<path>:<line>:<col>)";
// anything else ends the run.
func ExtractStackTrace(body string) string {
	var frames []string
	inTrace := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "at ") {
			frames = append(frames, trimmed)
			inTrace = true
			continue
		}
		if inTrace {
			// Error message line directly above the frames is part of the trace
			break
		}
	}

	return strings.Join(frames, "\n")
}

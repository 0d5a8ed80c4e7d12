package search

import "strings"

// SnippetLength is the default display length for result snippets.
const SnippetLength = 300

// Snippet truncates record text for display, appending an ellipsis when
// the text was cut. Truncation respects rune boundaries.
func Snippet(text string, length int) string {
	text = strings.TrimSpace(text)
	if length <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length]) + "..."
}

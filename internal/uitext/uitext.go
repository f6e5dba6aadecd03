// Package uitext provides small text-shaping helpers for terminal display:
// truncating long targets and paths so list rows stay on one line.
package uitext

import "strings"

// Truncate shortens text to at most maxLen runes, appending "..." when it
// had to cut. Returns an empty string for blank input.
func Truncate(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// CountUnique returns the number of distinct strings in items, used to
// summarize how many distinct broken targets a set of findings touches.
func CountUnique(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}

package tasks

import (
	"strings"
)

// CleanOneLine collapses s to a single line of single-spaced words. When
// maxLen is positive the result is cut to maxLen runes and marked with an
// ellipsis.
func CleanOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.Join(strings.Fields(s), " ")
	if maxLen > 0 {
		r := []rune(s)
		if len(r) > maxLen {
			s = string(r[:maxLen]) + "…"
		}
	}
	return s
}

package content

import (
	"strings"
	"unicode/utf8"
)

// PageSeparator joins page texts before normalization.
const PageSeparator = "\n\n"

// Normalize collapses every run of whitespace, newlines included, into a single
// space and trims both ends. Normalize is idempotent.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinPages joins page texts with a blank line and normalizes the result.
func JoinPages(pages []string) string {
	return Normalize(strings.Join(pages, PageSeparator))
}

// CharCount returns the number of Unicode code points in s.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

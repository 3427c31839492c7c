package core

import "unicode/utf8"

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Truncate limits s to max runes. Longer text is cut to max-1 runes followed
// by Ellipsis, so the result never exceeds max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max-1 {
			return s[:i] + Ellipsis
		}
		count++
	}
	return s
}

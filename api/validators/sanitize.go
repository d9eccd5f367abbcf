package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at maxLen
// bytes. A maxLen of zero leaves the length unbounded.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// NormalizeReference canonicalizes order and job references so lookups and
// uniqueness checks are case-insensitive: trimmed, upper-cased, capped.
func NormalizeReference(input string) string {
	return strings.ToUpper(SanitizeString(input, 64))
}

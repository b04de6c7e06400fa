package logger

import "unicode/utf8"

const truncatedSuffix = "...truncated"

// truncateString cuts s to at most maxLength bytes without splitting a UTF-8
// sequence, marking the cut with "...truncated" when there is room for it.
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= len(truncatedSuffix) {
		return validPrefix(s, maxLength)
	}
	return validPrefix(s, maxLength-len(truncatedSuffix)) + truncatedSuffix
}

func validPrefix(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

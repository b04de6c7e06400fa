package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultMaxTargetLength  = 128
	DefaultMaxMessageLength = 8192
	DefaultMaxFileLength    = 256
)

// Targets are module-path-like: letters, digits and . _ - : /
var targetRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:/-]+$`)

// ErrInputTooLong indicates the input string exceeds the maximum allowed length.
var ErrInputTooLong = errors.New("input exceeds maximum length")

// ErrInvalidChars indicates the input string contains disallowed characters.
var ErrInvalidChars = errors.New("input contains invalid characters")

// IsValidTarget checks a record target received from a client.
func IsValidTarget(target string, maxLength int) error {
	if len(target) > maxLength {
		return fmt.Errorf("%w: got %d, max %d", ErrInputTooLong, len(target), maxLength)
	}
	if !targetRegex.MatchString(target) {
		return fmt.Errorf("%w: allowed alphanumeric, '.', '_', '-', ':', '/'", ErrInvalidChars)
	}
	return nil
}

// SanitizeMessage makes client text safe to render as one line: newlines and
// tabs become spaces, other control runes and invalid UTF-8 are dropped, and
// the result is cut to maxLength bytes on a rune boundary.
func SanitizeMessage(s string, maxLength int) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r == utf8.RuneError || !unicode.IsPrint(r):
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if len(s) <= maxLength {
		return s
	}
	for maxLength > 0 && !utf8.RuneStart(s[maxLength]) {
		maxLength--
	}
	return s[:maxLength]
}

// SanitizeFile strips directories and control characters from a reported
// source file name.
func SanitizeFile(file string, maxLength int) string {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		file = file[i+1:]
	}
	return SanitizeMessage(file, maxLength)
}

package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Hash computes a SHA-256 hex hash over the given parts, separated by a
// unit separator so that ("ab", "c") and ("a", "bc") differ.
func Hash(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

// JoinSegments concatenates text pieces in order. The joiner is inserted only
// where neither side of the seam already carries whitespace, so segments that
// keep their own trailing spaces are not doubled up.
func JoinSegments(pieces []string, joiner string) string {
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 && joiner != "" && b.Len() > 0 && p != "" {
			last, _ := utf8.DecodeLastRuneInString(b.String())
			first, _ := utf8.DecodeRuneInString(p)
			if !unicode.IsSpace(last) && !unicode.IsSpace(first) {
				b.WriteString(joiner)
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

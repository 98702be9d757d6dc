package internal

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateEntryID creates a unique, never reused identifier for a word entry.
func GenerateEntryID() string {
	return uuid.NewString()
}

// SanitizeFilename creates a safe filename from a string.
// Letters of any script are kept so Spanish and Russian words stay readable.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is a letter or a digit
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateSpanishText validates that the input looks like Spanish text
func ValidateSpanishText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	hasLatin := false
	for _, r := range text {
		if unicode.In(r, unicode.Cyrillic) {
			return fmt.Errorf("text must not contain Cyrillic characters")
		}
		if unicode.IsLetter(r) && unicode.In(r, unicode.Latin) {
			hasLatin = true
		}
	}

	if !hasLatin {
		return fmt.Errorf("text must contain Latin characters")
	}

	return nil
}

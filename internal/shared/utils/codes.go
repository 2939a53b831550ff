package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// GenerateCategoryCode builds a category code from the category name:
// the first four letters uppercased, padded with X, plus three digits.
// Example: "Science Fiction" -> "SCIE042".
func GenerateCategoryCode(name string) string {
	letters := make([]rune, 0, 4)
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 4 {
				break
			}
		}
	}

	prefix := string(letters)
	for len(prefix) < 4 {
		prefix += "X"
	}

	return fmt.Sprintf("%s%03d", prefix, rand.Intn(1000))
}

// GenerateBookCode builds a book code from its category code and a sequence
// number. Example: ("SCIE042", 7) -> "SCIE042-007".
func GenerateBookCode(categoryCode string, seq int) string {
	return fmt.Sprintf("%s-%03d", strings.ToUpper(categoryCode), seq)
}

// FormatDocumentNumber renders a daily sequenced document number, e.g.
// ("FAC", 2025-01-15, 3) -> "FAC-20250115-003". Sequences above 999 keep
// their full width.
func FormatDocumentNumber(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day.Format("20060102"), seq)
}

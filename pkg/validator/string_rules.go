package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return newRule(field, "required", "is required", func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// MinLenString counts characters, not bytes.
func MinLenString(field, value string, min int) Rule {
	return newRule(field, "min_length", fmt.Sprintf("must be at least %d characters long", min), func() bool {
		return utf8.RuneCountInString(value) >= min
	})
}

// MaxLenString counts characters, not bytes, so accented titles are not
// penalised.
func MaxLenString(field, value string, max int) Rule {
	return newRule(field, "max_length", fmt.Sprintf("must be at most %d characters long", max), func() bool {
		return utf8.RuneCountInString(value) <= max
	})
}

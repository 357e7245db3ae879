package validator

import (
	"errors"
	"slices"
	"strings"
)

// ValidationError is one failed rule. Code is a stable key clients can
// switch on; Message reads after the field name, as in "title is required".
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

// ValidationErrors is every failure of one Apply call, in rule order.
type ValidationErrors []ValidationError

// Fail reports a single failure outside of Apply, e.g. for a field the
// request binder could not decode.
func Fail(field, code, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Code: code}}
}

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, e := range ve {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Field + ": " + e.Message)
	}
	return b.String()
}

func (ve *ValidationErrors) Add(err ValidationError) { *ve = append(*ve, err) }

func (ve ValidationErrors) IsEmpty() bool { return len(ve) == 0 }

func (ve ValidationErrors) Has(field string) bool {
	return slices.ContainsFunc(ve, func(e ValidationError) bool { return e.Field == field })
}

// Get returns the messages for field in rule order.
func (ve ValidationErrors) Get(field string) []string {
	var out []string
	for _, e := range ve {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Fields lists each failing field once, in order of its first failure.
func (ve ValidationErrors) Fields() []string {
	var out []string
	for _, e := range ve {
		if !slices.Contains(out, e.Field) {
			out = append(out, e.Field)
		}
	}
	return out
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err, or
// nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

package validator

import "strings"

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Rule pairs a check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

func newRule(field, code, message string, check func() bool) Rule {
	return Rule{Check: check, Error: ValidationError{Field: field, Message: message, Code: code}}
}

// Optional passes when value is blank and defers to rule otherwise.
func Optional(value string, rule Rule) Rule {
	if strings.TrimSpace(value) == "" {
		rule.Check = func() bool { return true }
	}
	return rule
}

// Apply runs every rule and returns the failures as ValidationErrors, or
// nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Check() {
			errs.Add(r.Error)
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

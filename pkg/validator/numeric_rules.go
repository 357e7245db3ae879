package validator

import "fmt"

// MinNum validates that a numeric value is greater than or equal to the minimum.
func MinNum[T Numeric](field string, value T, min T) Rule {
	return newRule(field, "min", fmt.Sprintf("must be at least %v", min), func() bool {
		return value >= min
	})
}

// MaxNum validates that a numeric value is less than or equal to the maximum.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return newRule(field, "max", fmt.Sprintf("must be at most %v", max), func() bool {
		return value <= max
	})
}

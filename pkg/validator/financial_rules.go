package validator

import (
	"fmt"
	"strings"
)

// ISO 4217 codes accepted for card payments.
var validCurrencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "AUD": true, "CAD": true,
	"CHF": true, "CNY": true, "SEK": true, "NZD": true, "MXN": true, "SGD": true,
	"HKD": true, "NOK": true, "KRW": true, "TRY": true, "INR": true, "BRL": true,
	"ZAR": true, "PLN": true, "CZK": true, "HUF": true, "ILS": true, "CLP": true,
	"PHP": true, "AED": true, "COP": true, "SAR": true, "MYR": true, "RON": true,
	"THB": true, "BGN": true, "ISK": true, "DKK": true,
}

// PositiveAmount validates that an amount is greater than zero.
func PositiveAmount[T Numeric](field string, value T) Rule {
	return newRule(field, "positive_amount", "must be positive", func() bool {
		return value > 0
	})
}

// NonNegativeAmount validates that an amount is zero or more. Free items use it.
func NonNegativeAmount[T Numeric](field string, value T) Rule {
	return newRule(field, "non_negative_amount", "cannot be negative", func() bool {
		return value >= 0
	})
}

// MaxAmount caps a single charge.
func MaxAmount[T Numeric](field string, value T, max T) Rule {
	return newRule(field, "max_amount", fmt.Sprintf("must not exceed %v", max), func() bool {
		return value <= max
	})
}

// ValidCurrencyCode accepts a known ISO 4217 code in either case.
func ValidCurrencyCode(field, value string) Rule {
	return newRule(field, "currency_code", "must be a valid ISO 4217 currency code", func() bool {
		return validCurrencyCodes[strings.ToUpper(strings.TrimSpace(value))]
	})
}

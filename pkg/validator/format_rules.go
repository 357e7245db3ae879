package validator

import (
	"net/url"
	"slices"
	"strings"
)

// ValidURL validates an absolute http or https URL.
func ValidURL(field, value string) Rule {
	return ValidURLWithScheme(field, value, []string{"http", "https"})
}

// ValidURLWithScheme validates an absolute URL whose scheme is one of schemes.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	return newRule(field, "url", "must be a valid URL", func() bool {
		if strings.TrimSpace(value) == "" {
			return false
		}
		u, err := url.ParseRequestURI(value)
		if err != nil || u.Host == "" {
			return false
		}
		return slices.Contains(schemes, strings.ToLower(u.Scheme))
	})
}

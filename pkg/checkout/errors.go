package checkout

import "errors"

var (
	ErrMissingSecretKey = errors.New("checkout: stripe secret key is not configured")
	ErrProviderError    = errors.New("checkout: payment provider error")
	ErrNoCheckoutURL    = errors.New("checkout: no checkout URL returned from provider")
)

package checkout

// Config holds checkout settings.
type Config struct {
	// SecretKey is used when the site config document carries no Stripe key.
	SecretKey string `env:"STRIPE_SECRET_KEY"`

	// Currency is charged for every line item regardless of what the client sends.
	Currency string `env:"CHECKOUT_CURRENCY" envDefault:"usd"`

	PaymentMethods []string `env:"CHECKOUT_PAYMENT_METHODS" envDefault:"card" envSeparator:","`
	BillingAddress string   `env:"CHECKOUT_BILLING_ADDRESS" envDefault:"auto"`
	MaxProductName int      `env:"CHECKOUT_MAX_PRODUCT_NAME" envDefault:"250"`
}

// DefaultConfig returns the defaults used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		Currency:       "usd",
		PaymentMethods: []string{"card"},
		BillingAddress: "auto",
		MaxProductName: 250,
	}
}

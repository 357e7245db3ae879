package secrets

// Config holds codec settings loaded from the environment.
type Config struct {
	// Secret is the primary secret. All new values are encrypted with the key derived from it.
	Secret string `env:"SECRETS_KEY,required"`

	// PreviousSecrets are accepted for decryption only, so a rotated key can
	// still read values written before the rotation.
	PreviousSecrets []string `env:"SECRETS_PREVIOUS_KEYS" envSeparator:","`

	// LegacyPassphrase enables reading OpenSSL "salted" payloads produced by
	// passphrase-based encryption. Leave empty once all data is migrated.
	LegacyPassphrase string `env:"SECRETS_LEGACY_PASSPHRASE"`
}

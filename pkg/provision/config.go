package provision

import "time"

// Config holds provisioning settings.
type Config struct {
	// ProjectID and APIKey are the fallback credentials used when none were saved.
	ProjectID string `env:"PROVISION_PROJECT_ID"`
	APIKey    string `env:"PROVISION_API_KEY"`

	// CredentialsFile is where credentials are saved after a successful setup.
	CredentialsFile string `env:"PROVISION_CREDENTIALS_FILE" envDefault:".storefront/credentials.yaml"`

	// ReadyTimeout bounds how long a new collection may take to show up.
	ReadyTimeout time.Duration `env:"PROVISION_READY_TIMEOUT" envDefault:"10s"`

	// PollInterval is the pause between readiness checks.
	PollInterval time.Duration `env:"PROVISION_POLL_INTERVAL" envDefault:"200ms"`

	// SettleDelay is applied between attribute and index steps on backends
	// that materialise them asynchronously.
	SettleDelay time.Duration `env:"PROVISION_SETTLE_DELAY" envDefault:"0s"`

	// SiteName is written into the initial site config document.
	SiteName string `env:"PROVISION_SITE_NAME" envDefault:"Video Site"`
}

// DefaultConfig returns the defaults used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		CredentialsFile: ".storefront/credentials.yaml",
		ReadyTimeout:    10 * time.Second,
		PollInterval:    200 * time.Millisecond,
		SiteName:        "Video Site",
	}
}

// EnvCredentials returns the fallback credentials from the configuration.
func (c Config) EnvCredentials() Credentials {
	return Credentials{ProjectID: c.ProjectID, APIKey: c.APIKey}
}

package redis

import "time"

// Config is read from REDIS_* variables. ConnectionURL takes the
// redis://[:password@]host:port/db form.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS"  envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL"  envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}

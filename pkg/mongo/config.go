package mongo

import "time"

// Config is read from MONGODB_* variables. An empty ConnectionURL
// disables MongoDB and the stores fall back to memory.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL"`
	Database        string        `env:"MONGODB_DATABASE"           envDefault:"storefront"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT"    envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE"      envDefault:"100"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE"      envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES"       envDefault:"true"`
	RetryReads      bool          `env:"MONGODB_RETRY_READS"        envDefault:"true"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS"     envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL"     envDefault:"5s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}

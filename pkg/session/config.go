package session

import "time"

// Store driver names accepted by Config.Store.
const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds session configuration
type Config struct {
	// Lifetime of a new session (default: 24h)
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`

	// CacheTTL is how long a validation result is served from memory (default: 30s)
	CacheTTL time.Duration `env:"SESSION_CACHE_TTL" envDefault:"30s"`

	// HitLogInterval throttles the cache-hit diagnostic line (default: 5s)
	HitLogInterval time.Duration `env:"SESSION_CACHE_LOG_INTERVAL" envDefault:"5s"`

	// CookieName is the name of the session cookie (default: "sessionToken")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sessionToken"`

	// HeaderName is the request header carrying the token (default: "X-Session-Token")
	HeaderName string `env:"SESSION_HEADER_NAME" envDefault:"X-Session-Token"`

	// SecureCookies enables the Secure flag on session cookies (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// Store selects the backend: memory, mongo, postgres or redis
	Store string `env:"SESSION_STORE" envDefault:"memory"`

	// IssuerKey is the bearer credential required by POST /api/session.
	// Empty disables session creation over HTTP.
	IssuerKey string `env:"SESSION_ISSUER_KEY"`

	// TokenFile is where the CLI keeps the current token between runs
	TokenFile string `env:"SESSION_TOKEN_FILE" envDefault:".storefront/sessionToken"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Lifetime:       24 * time.Hour,
		CacheTTL:       30 * time.Second,
		HitLogInterval: 5 * time.Second,
		CookieName:     "sessionToken",
		HeaderName:     "X-Session-Token",
		Store:          StoreMemory,
		TokenFile:      ".storefront/sessionToken",
	}
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}

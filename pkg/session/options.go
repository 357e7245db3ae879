package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets a custom session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets how tokens travel over HTTP
func WithTransport(t Transport) Option {
	return func(m *Manager) {
		m.transport = t
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithLifetime sets the lifetime of new sessions
func WithLifetime(d time.Duration) Option {
	return func(m *Manager) {
		m.config.Lifetime = d
	}
}

// WithCacheTTL sets how long validation results are cached
func WithCacheTTL(d time.Duration) Option {
	return func(m *Manager) {
		m.config.CacheTTL = d
	}
}

// WithClock overrides the time source. Used by tests to move time forward.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithKeeper sets where the current token is kept
func WithKeeper(k TokenKeeper) Option {
	return func(m *Manager) {
		m.keeper = k
	}
}

// WithIdentity sets the identity check run before store access
func WithIdentity(id IdentityEnsurer) Option {
	return func(m *Manager) {
		m.identity = id
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

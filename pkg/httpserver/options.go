package httpserver

import (
	"fmt"
	"log/slog"
	"time"
)

// Option configures a Server. Options validate their argument eagerly and
// panic on values that could only come from a programming error.
type Option func(*config)

// timeout builds an option for a positive duration field.
func timeout(name string, d time.Duration, field func(*config) *time.Duration) Option {
	if d <= 0 {
		panic(fmt.Sprintf("httpserver: %s must be positive, got %s", name, d))
	}
	return func(c *config) { *field(c) = d }
}

// WithAddr sets the listen address. Port 0 picks a free port; Server.Addr
// reports which.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty listen address")
	}
	return func(c *config) { c.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	return timeout("read timeout", d, func(c *config) *time.Duration { return &c.readTimeout })
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return timeout("read header timeout", d, func(c *config) *time.Duration { return &c.readHeaderTimeout })
}

func WithWriteTimeout(d time.Duration) Option {
	return timeout("write timeout", d, func(c *config) *time.Duration { return &c.writeTimeout })
}

func WithIdleTimeout(d time.Duration) Option {
	return timeout("idle timeout", d, func(c *config) *time.Duration { return &c.idleTimeout })
}

// WithShutdownTimeout bounds how long in-flight requests get to finish.
func WithShutdownTimeout(d time.Duration) Option {
	return timeout("shutdown timeout", d, func(c *config) *time.Duration { return &c.shutdownTimeout })
}

// WithLogger sets the logger; nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook runs h with the bound address once the listener is up.
func WithStartHook(h func(addr string)) Option {
	if h == nil {
		panic("httpserver: nil start hook")
	}
	return func(c *config) { c.startHooks = append(c.startHooks, h) }
}

// WithStopHook runs h after shutdown, e.g. to close database pools.
func WithStopHook(h func()) Option {
	if h == nil {
		panic("httpserver: nil stop hook")
	}
	return func(c *config) { c.stopHooks = append(c.stopHooks, h) }
}

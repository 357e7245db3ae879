package httpserver

import "time"

// Config is loaded from HTTP_* variables. WriteTimeout defaults to zero so
// the setup progress stream is not cut off.
type Config struct {
	Addr              string        `env:"HTTP_ADDR"                envDefault:":8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        envDefault:"30s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT"       envDefault:"0s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT"        envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"    envDefault:"10s"`

	// CORSOrigins lists the browser origins allowed to call the API; "*"
	// allows any.
	CORSOrigins []string `env:"HTTP_CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// NewFromConfig creates a Server from cfg. Zero values keep the defaults
// and opts apply last.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	var all []Option
	if cfg.Addr != "" {
		all = append(all, WithAddr(cfg.Addr))
	}
	durations := []struct {
		d   time.Duration
		opt func(time.Duration) Option
	}{
		{cfg.ReadTimeout, WithReadTimeout},
		{cfg.ReadHeaderTimeout, WithReadHeaderTimeout},
		{cfg.WriteTimeout, WithWriteTimeout},
		{cfg.IdleTimeout, WithIdleTimeout},
		{cfg.ShutdownTimeout, WithShutdownTimeout},
	}
	for _, d := range durations {
		if d.d > 0 {
			all = append(all, d.opt(d.d))
		}
	}
	return New(append(all, opts...)...)
}

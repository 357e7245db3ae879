package logger

import (
	"log/slog"
	"strings"
)

// Config is the environment driven logger setup.
type Config struct {
	Env     string `env:"APP_ENV"    envDefault:"development"`
	Service string `env:"APP_NAME"   envDefault:"storefront"`
	Level   string `env:"LOG_LEVEL"`
	Format  string `env:"LOG_FORMAT"`
}

// NewFromConfig applies the environment profile first, then an explicit
// level or format. Values that do not parse are ignored.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	all := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	var lvl slog.Level
	if cfg.Level != "" && lvl.UnmarshalText([]byte(cfg.Level)) == nil {
		all = append(all, WithLevel(lvl))
	}
	if f := Format(strings.ToLower(cfg.Format)); f == FormatJSON || f == FormatText {
		all = append(all, WithFormat(f))
	}
	return New(append(all, opts...)...)
}

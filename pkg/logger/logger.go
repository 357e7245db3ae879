package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Environment names accepted by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type options struct {
	level      slog.Level
	format     Format
	out        io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*options)

// New returns a logger writing JSON at info level to stdout unless the
// options say otherwise.
func New(opts ...Option) *slog.Logger {
	o := options{level: slog.LevelInfo, format: FormatJSON, out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}
	var h slog.Handler
	switch o.format {
	case FormatText:
		h = slog.NewTextHandler(o.out, hopts)
	default:
		h = slog.NewJSONHandler(o.out, hopts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	return slog.New(withExtractors(h, o.extractors))
}

// SetAsDefault installs l as the slog default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat panics on anything but FormatJSON or FormatText.
func WithFormat(f Format) Option {
	if f != FormatJSON && f != FormatText {
		panic(fmt.Sprintf("logger: unknown format %q", f))
	}
	return func(o *options) { o.format = f }
}

func WithTextFormatter() Option { return WithFormat(FormatText) }

func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput redirects the logger; a nil writer is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithAttr attaches attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithContextExtractors registers extractors run on every record. Nil
// entries are dropped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, e := range extractors {
			if e != nil {
				o.extractors = append(o.extractors, e)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*options) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		return slog.Any(name, v), v != nil
	})
}

type profile struct {
	env    string
	level  slog.Level
	format Format
}

var profiles = map[string]profile{
	EnvDevelopment: {EnvDevelopment, slog.LevelDebug, FormatText},
	EnvStaging:     {EnvStaging, slog.LevelInfo, FormatJSON},
	EnvProduction:  {EnvProduction, slog.LevelInfo, FormatJSON},
	"stage":        {EnvStaging, slog.LevelInfo, FormatJSON},
	"prod":         {EnvProduction, slog.LevelInfo, FormatJSON},
}

// WithEnvironment applies the level and format of env and tags records
// with service and env. Unknown environments are treated as development.
func WithEnvironment(env, service string) Option {
	p, ok := profiles[env]
	if !ok {
		p = profiles[EnvDevelopment]
	}
	return func(o *options) {
		if service == "" {
			return
		}
		o.level, o.format = p.level, p.format
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", p.env))
	}
}

func WithDevelopment(service string) Option { return WithEnvironment(EnvDevelopment, service) }

func WithStaging(service string) Option { return WithEnvironment(EnvStaging, service) }

func WithProduction(service string) Option { return WithEnvironment(EnvProduction, service) }

package clientip

// Config lists the trusted proxy headers, highest priority first.
type Config struct {
	Headers []string `env:"CLIENT_IP_HEADERS" envDefault:"CF-Connecting-IP,X-Forwarded-For,X-Real-IP" envSeparator:","`
}

// DefaultHeaders is the header order used by New without arguments.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

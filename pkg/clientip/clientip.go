package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Resolver extracts the client address from a request.
type Resolver struct {
	headers []string
}

// New creates a Resolver trusting headers in the given order.
// Without headers DefaultHeaders is used; pass an empty string to trust none.
func New(headers ...string) *Resolver {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	trusted := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			trusted = append(trusted, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: trusted}
}

// NewFromConfig creates a Resolver from cfg.
func NewFromConfig(cfg Config) *Resolver {
	return New(cfg.Headers...)
}

// IP returns the normalised client address or "" when none is valid.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		for v := range strings.SplitSeq(r.Header.Get(h), ",") {
			if ip := parse(v); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parse(r.RemoteAddr)
	}
	return parse(host)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

func parse(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	// zones are local to the host and make poor rate limit keys
	return addr.WithZone("").Unmap().String()
}

type contextKey struct{}

// WithContext stores ip in ctx.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored by Middleware.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

var defaultResolver = New()

// FromRequest returns the address stored by Middleware, or resolves it with
// DefaultHeaders when the middleware did not run.
func FromRequest(r *http.Request) string {
	if ip := FromContext(r.Context()); ip != "" {
		return ip
	}
	return defaultResolver.IP(r)
}

package session

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type issuerCredentialKey struct{}

// IssuerKey returns an IdentityEnsurer that admits callers whose request
// carried key as an "Authorization: Bearer" credential. An empty key admits
// nobody.
func IssuerKey(key string) IdentityEnsurer {
	return IdentityFunc(func(ctx context.Context) error {
		got, _ := ctx.Value(issuerCredentialKey{}).(string)
		if key == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return ErrIssuerRequired
		}
		return nil
	})
}

// WithIssuerCredential returns a copy of ctx carrying credential for IssuerKey.
func WithIssuerCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, issuerCredentialKey{}, credential)
}

func issuerCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, credential, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			r = r.WithContext(WithIssuerCredential(r.Context(), strings.TrimSpace(credential)))
		}
		next.ServeHTTP(w, r)
	})
}

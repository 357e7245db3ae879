package session

import (
	"context"
	"net/http"

	"github.com/vidshop/storefront/handler"
)

type ctxKey struct{}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session Middleware attached, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s, s != nil
}

// UserIDFromContext returns the user of the attached session.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if s, ok := FromContext(ctx); ok && s.UserID != "" {
		return s.UserID, true
	}
	return "", false
}

// Middleware attaches the session named by the request token. Requests
// without a token, or with one that no longer validates, continue
// anonymously.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := m.transport.GetToken(r); err == nil {
			if s := m.ValidateOrNil(r.Context(), token); s != nil {
				r = r.WithContext(WithSession(r.Context(), s))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession answers 401 unless Middleware attached a session.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			_ = handler.JSONError(handler.ErrUnauthorized.WithMessage("session required")).Render(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package session

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Transport moves the opaque session token between client and server.
type Transport interface {
	GetToken(r *http.Request) (string, error)
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error
	ClearToken(w http.ResponseWriter) error
}

// NewTransport reads the token from the cookie first and the header second,
// and writes it to both.
func NewTransport(cfg Config) Transport {
	return Chain{
		Cookie{Name: cfg.CookieName, Secure: cfg.SecureCookies},
		Header{Name: cfg.HeaderName},
	}
}

// Cookie carries the token in an HttpOnly, SameSite=Lax cookie. The value is
// looked up in the store on every request, so it is not signed.
type Cookie struct {
	Name   string
	Secure bool
}

func (c Cookie) GetToken(r *http.Request) (string, error) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return "", ErrSessionNotFound
	}
	return ck.Value, nil
}

func (c Cookie) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	http.SetCookie(w, c.cookie(token, int(ttl.Seconds())))
	return nil
}

func (c Cookie) ClearToken(w http.ResponseWriter) error {
	http.SetCookie(w, c.cookie("", -1))
	return nil
}

func (c Cookie) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Header carries the token in a request header for clients without a cookie
// jar. Responses echo the token plus an RFC 3339 expiry in Name+"-Expires".
type Header struct {
	Name   string
	Scheme string // optional prefix such as "Bearer "
}

func (h Header) GetToken(r *http.Request) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(r.Header.Get(h.Name)), h.Scheme)
	if v == "" {
		return "", ErrSessionNotFound
	}
	return v, nil
}

func (h Header) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	w.Header().Set(h.Name, h.Scheme+token)
	if ttl > 0 {
		w.Header().Set(h.Name+"-Expires", time.Now().Add(ttl).UTC().Format(time.RFC3339))
	}
	return nil
}

func (h Header) ClearToken(w http.ResponseWriter) error {
	w.Header().Del(h.Name)
	w.Header().Del(h.Name + "-Expires")
	return nil
}

// Chain reads from the first transport that has a token and writes to all.
type Chain []Transport

func (c Chain) GetToken(r *http.Request) (string, error) {
	for _, t := range c {
		if tok, err := t.GetToken(r); err == nil && tok != "" {
			return tok, nil
		}
	}
	return "", ErrSessionNotFound
}

func (c Chain) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	var errs []error
	for _, t := range c {
		errs = append(errs, t.SetToken(w, token, ttl))
	}
	return errors.Join(errs...)
}

func (c Chain) ClearToken(w http.ResponseWriter) error {
	var errs []error
	for _, t := range c {
		errs = append(errs, t.ClearToken(w))
	}
	return errors.Join(errs...)
}

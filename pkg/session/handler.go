package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/binder"
	"github.com/vidshop/storefront/pkg/validator"
)

// Handler exposes the manager over HTTP. Mount it under /api/session:
//
//	r.Mount("/api/session", session.NewHandler(mgr, errorHandler, session.WithIssuer(key)).Handle())
type Handler struct {
	mgr          *Manager
	errorHandler handler.ErrorHandler[handler.Context]
	issuer       IdentityEnsurer
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithIssuer sets who may create sessions over HTTP. Without it every
// create request is rejected.
func WithIssuer(id IdentityEnsurer) HandlerOption {
	return func(h *Handler) {
		if id != nil {
			h.issuer = id
		}
	}
}

// NewHandler creates the session HTTP handler. A nil errorHandler falls back
// to the default JSON error response.
func NewHandler(mgr *Manager, errorHandler handler.ErrorHandler[handler.Context], opts ...HandlerOption) *Handler {
	h := &Handler{mgr: mgr, errorHandler: errorHandler, issuer: IssuerKey("")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle returns the routes:
//
//	POST   /                 create a session for userId (issuer only)
//	GET    /                 the session of the request token
//	DELETE /                 revoke the session of the request token
//	DELETE /user/{userID}    revoke every session of the user
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mgr.Middleware)

	r.With(issuerCredential).Post("/", handler.Wrap(h.create,
		handler.WithBinders[handler.Context, CreateRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, CreateRequest](h.errorHandler),
	))
	r.Get("/", handler.Wrap(h.current,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.Delete("/", handler.Wrap(h.revoke,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.With(h.mgr.RequireSession).Delete("/user/{userID}", handler.Wrap(h.revokeUser,
		handler.WithBinders[handler.Context, RevokeUserRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, RevokeUserRequest](h.errorHandler),
	))

	return r
}

// CreateRequest is the body of POST /api/session.
type CreateRequest struct {
	UserID string `json:"userId"`
}

// RevokeUserRequest carries the path of DELETE /api/session/user/{userID}.
type RevokeUserRequest struct {
	UserID string `path:"userID"`
}

// Response is the JSON view of a session. Token is only set on creation.
type Response struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsActive  bool      `json:"isActive"`
}

func newResponse(s *Session, withToken bool) Response {
	resp := Response{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		IsActive:  s.IsActive,
	}
	if withToken {
		resp.Token = s.Token
	}
	return resp
}

func (h *Handler) create(ctx handler.Context, req CreateRequest) handler.Response {
	if err := h.issuer.EnsureIdentity(ctx); err != nil {
		return handler.JSONError(httpError(errors.Join(ErrIssuerRequired, err)))
	}
	if err := validator.Apply(validator.RequiredString("userId", req.UserID)); err != nil {
		return handler.JSONError(err)
	}

	s, err := h.mgr.Create(ctx, req.UserID, ctx.Request().UserAgent())
	if err != nil {
		return handler.JSONError(httpError(err))
	}

	if err := h.mgr.Transport().SetToken(ctx.ResponseWriter(), s.Token, time.Until(s.ExpiresAt)); err != nil {
		return handler.JSONError(err)
	}

	return handler.JSON(newResponse(s, true), handler.WithJSONStatus(http.StatusCreated))
}

func (h *Handler) current(ctx handler.Context, _ struct{}) handler.Response {
	s, ok := FromContext(ctx)
	if !ok {
		return handler.JSONError(httpError(ErrSessionNotFound))
	}
	return handler.JSON(newResponse(s, false))
}

func (h *Handler) revoke(ctx handler.Context, _ struct{}) handler.Response {
	s, ok := FromContext(ctx)
	if !ok {
		return handler.JSONError(httpError(ErrSessionNotFound))
	}

	if err := h.mgr.Revoke(ctx, s.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return handler.JSONError(httpError(err))
	}
	if err := h.mgr.Transport().ClearToken(ctx.ResponseWriter()); err != nil {
		return handler.JSONError(err)
	}

	return handler.Empty()
}

func (h *Handler) revokeUser(ctx handler.Context, req RevokeUserRequest) handler.Response {
	s, _ := FromContext(ctx)
	if s == nil || s.UserID != req.UserID {
		return handler.JSONError(handler.ErrForbidden.WithMessage("sessions of other users cannot be revoked"))
	}

	n, err := h.mgr.RevokeAllForUser(ctx, req.UserID)
	if err != nil {
		return handler.JSONError(httpError(err))
	}
	if err := h.mgr.Transport().ClearToken(ctx.ResponseWriter()); err != nil {
		return handler.JSONError(err)
	}

	return handler.JSON(map[string]int{"revoked": n})
}

// httpError maps manager errors onto client-facing HTTP errors.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrIssuerRequired):
		return handler.ErrUnauthorized.WithMessage("a valid issuer key is required")
	case errors.Is(err, ErrInvalidUserID):
		return handler.ErrBadRequest.WithMessage("userId is required")
	case IsInvalid(err):
		return handler.ErrUnauthorized.WithMessage("session is not valid")
	case errors.Is(err, ErrIdentity):
		return handler.ErrServiceUnavailable.WithMessage("session storage is unavailable")
	default:
		return err
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/vidshop/storefront/pkg/binder"
)

// Context is the request context handed to a HandlerFunc. It is the
// request's context.Context with the request and writer attached.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

type requestContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

// NewContext binds w and r into a Context.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return requestContext{Context: r.Context(), w: w, r: r}
}

func (c requestContext) Request() *http.Request              { return c.r }
func (c requestContext) ResponseWriter() http.ResponseWriter { return c.w }

// Response renders itself, writing headers, status and body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// HandlerFunc handles a request already bound into R.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Bind fills v from the request.
type Bind func(r *http.Request, v any) error

// ErrorHandler answers a request whose binding or rendering failed.
type ErrorHandler[C Context] func(ctx C, err error)

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapper[C, R])

type wrapper[C Context, R any] struct {
	binders []Bind
	onError ErrorHandler[C]
}

// WithBinders appends binders; they run in order on the same request
// value, so each should only touch its own tags.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(w *wrapper[C, R]) {
		for _, b := range binders {
			if b != nil {
				w.binders = append(w.binders, b)
			}
		}
	}
}

// WithErrorHandler replaces the default handler, which renders JSONError.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(w *wrapper[C, R]) {
		if h != nil {
			w.onError = h
		}
	}
}

// Wrap adapts h to net/http: bind, call, render. A binder returning
// binder.ErrBinderNotApplicable is skipped.
//
// C must be satisfied by the value NewContext returns; Wrap panics
// otherwise.
//
//	r.Post("/api/setup", handler.Wrap(setup,
//		handler.WithBinders[handler.Context, SetupRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, SetupRequest](errorHandler),
//	))
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	wr := &wrapper[C, R]{
		onError: func(ctx C, err error) {
			_ = JSONError(err).Render(ctx.ResponseWriter(), ctx.Request())
		},
	}
	for _, opt := range opts {
		opt(wr)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := NewContext(w, r).(C)
		if !ok {
			panic("handler: Wrap needs a context type implemented by NewContext")
		}

		var req R
		for _, bind := range wr.binders {
			err := bind(r, &req)
			if errors.Is(err, binder.ErrBinderNotApplicable) {
				continue
			}
			if err != nil {
				wr.onError(ctx, err)
				return
			}
		}

		resp := h(ctx, req)
		if resp == nil {
			wr.onError(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			wr.onError(ctx, err)
		}
	}
}

type statusOnly int

func (s statusOnly) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(s))
	return nil
}

// Empty answers 204 No Content.
func Empty() Response { return statusOnly(http.StatusNoContent) }

// EmptyWithStatus answers status with no body.
func EmptyWithStatus(status int) Response { return statusOnly(status) }

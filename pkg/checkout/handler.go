package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/binder"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/validator"
)

// Handler exposes checkout session creation. Mount it under
// /api/create-checkout-session:
//
//	r.Mount("/api/create-checkout-session", checkout.NewHandler(svc, log).Handle())
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler creates the checkout HTTP handler.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, log: log.With(logger.Handler("checkout"))}
}

// Handle returns the routes:
//
//	POST /   create a session, answers {sessionId, url}
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/", handler.Wrap(h.create,
		handler.WithBinders[handler.Context, Request](binder.JSON()),
		handler.WithErrorHandler[handler.Context, Request](h.bindError),
	))
	return r
}

func (h *Handler) create(ctx handler.Context, req Request) handler.Response {
	sess, err := h.svc.CreateSession(ctx, req)
	switch {
	case err == nil:
		return handler.JSON(sess)
	case errors.Is(err, ErrMissingSecretKey):
		h.log.ErrorContext(ctx, "stripe secret key missing from site config and environment")
		return handler.JSONError(handler.ErrInternalServerError.WithMessage("payment processor is not configured"))
	case errors.Is(err, ErrProviderError), errors.Is(err, ErrNoCheckoutURL):
		return handler.JSONError(handler.ErrBadGateway.WithMessage("could not create checkout session"))
	default:
		return handler.JSONError(err)
	}
}

// bindError names the offending field when the body has a value of the wrong type.
func (h *Handler) bindError(ctx handler.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		err = validator.Fail(typeErr.Field, "type", "must be "+expectedType(typeErr.Field))
	}

	h.log.WarnContext(ctx, "invalid checkout request", logger.Error(err))
	if rerr := handler.JSONError(err).Render(ctx.ResponseWriter(), ctx.Request()); rerr != nil {
		h.log.ErrorContext(ctx, "failed to render error response", logger.Error(rerr))
	}
}

func expectedType(field string) string {
	if field == "amount" {
		return "a positive integer in minor currency units"
	}
	return "a string"
}

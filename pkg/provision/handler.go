package provision

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/binder"
	"github.com/vidshop/storefront/pkg/logger"
)

// Handler exposes the provisioner over HTTP. Mount it under /api/setup:
//
//	r.Mount("/api/setup", provision.NewHandler(p, log).Handle())
type Handler struct {
	p   *Provisioner
	log *slog.Logger
}

// NewHandler creates the setup HTTP handler.
func NewHandler(p *Provisioner, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{p: p, log: log.With(logger.Handler("setup"))}
}

// Handle returns the routes:
//
//	POST /         run one action
//	GET  /stream   run the whole pipeline, streaming progress
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/", handler.Wrap(h.action,
		handler.WithBinders[handler.Context, Request](binder.JSON()),
		handler.WithErrorHandler[handler.Context, Request](h.bindError),
	))
	r.Get("/stream", handler.Wrap(h.stream,
		handler.WithBinders[handler.Context, StreamRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, StreamRequest](h.bindError),
	))
	return r
}

// StreamRequest carries the credentials of GET /api/setup/stream.
type StreamRequest struct {
	ProjectID string `query:"projectId"`
	APIKey    string `query:"apiKey"`
}

func (h *Handler) action(ctx handler.Context, req Request) handler.Response {
	out, err := h.p.Do(ctx, req)
	if err != nil {
		return h.failure(ctx, req.Action, err)
	}
	return handler.JSON(out)
}

func (h *Handler) stream(ctx handler.Context, req StreamRequest) handler.Response {
	creds := Credentials{ProjectID: req.ProjectID, APIKey: req.APIKey}
	if err := h.p.Authorize(ctx, creds); err != nil {
		return h.failure(ctx, "stream", err)
	}

	return handler.SSE(func(stream handler.StreamContext) error {
		res := h.p.Run(stream, creds, func(p Progress) {
			if err := stream.SendSignal("setup", p); err != nil {
				h.log.DebugContext(stream, "progress not delivered", logger.Error(err))
			}
		})
		return stream.SendSignal("result", res)
	})
}

// failure answers with {success:false, message}. Client mistakes keep
// their message; backend failures are logged and reported generically.
func (h *Handler) failure(ctx handler.Context, action string, err error) handler.Response {
	status := http.StatusInternalServerError
	msg := "setup failed"

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
		msg = "invalid credentials"
	case IsClientError(err):
		status = http.StatusBadRequest
		msg = err.Error()
	default:
		h.log.ErrorContext(ctx, "setup action failed", slog.String("action", action), logger.Error(err))
		if errors.Is(err, ErrConnectionFailed) {
			msg = "could not reach the database"
		}
	}

	return handler.JSON(Outcome{Success: false, Message: msg}, handler.WithJSONStatus(status))
}

func (h *Handler) bindError(ctx handler.Context, err error) {
	resp := handler.JSON(
		Outcome{Success: false, Message: "invalid request body"},
		handler.WithJSONStatus(http.StatusBadRequest),
	)
	_ = resp.Render(ctx.ResponseWriter(), ctx.Request())
}

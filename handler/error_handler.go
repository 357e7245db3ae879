package handler

import (
	"log/slog"
	"net/http"

	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/requestid"
)

// NewErrorHandler creates the error handler shared by the API routes.
// It logs client errors at warn and server errors at error level, then
// answers with JSONError.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		info := ClassifyError(err)
		r := ctx.Request()

		level := slog.LevelError
		if info.StatusCode < http.StatusInternalServerError {
			level = slog.LevelWarn
		}

		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if rerr := JSONError(err).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(rerr))
		}
	}
}

package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/catalog"
	"github.com/vidshop/storefront/pkg/checkout"
	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/httpserver"
	"github.com/vidshop/storefront/pkg/provision"
	"github.com/vidshop/storefront/pkg/ratelimiter"
	"github.com/vidshop/storefront/pkg/requestid"
	"github.com/vidshop/storefront/pkg/session"
)

const readinessTimeout = 2 * time.Second

func (a *app) router() http.Handler {
	errorHandler := handler.NewErrorHandler(a.log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(a.ips.Middleware)
	r.Use(httpserver.CORS(a.cfg.HTTP.CORSOrigins))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, readinessTimeout, a.backends.checks...))

	videos := catalog.NewHandler(a.videos, a.storage, a.names,
		catalog.WithAuth(a.sessions.RequireSession),
		catalog.WithHandlerConfig(a.cfg.Catalog),
		catalog.WithErrorHandler(errorHandler),
		catalog.WithHandlerLogger(a.log),
	)

	r.Route("/api", func(r chi.Router) {
		r.With(a.limit("session")).Mount("/session", session.NewHandler(a.sessions, errorHandler,
			session.WithIssuer(session.IssuerKey(a.cfg.Session.IssuerKey)),
		).Handle())
		r.With(a.limit("setup")).Mount("/setup", provision.NewHandler(a.provisioner, a.log).Handle())
		r.With(a.limit("checkout")).Mount("/create-checkout-session", checkout.NewHandler(a.checkout, a.log).Handle())

		r.Group(func(r chi.Router) {
			r.Use(a.sessions.Middleware)
			r.Mount("/videos", videos.Videos())
			r.Mount("/uploads", videos.Uploads())
		})
	})

	if d := a.cfg.Storage.Driver; d == file.DriverLocal || d == "" {
		prefix := "/" + strings.Trim(a.cfg.Storage.LocalURL, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(a.cfg.Storage.LocalDir))))
	}

	return r
}

// limit throttles a route group per client address.
func (a *app) limit(scope string) func(http.Handler) http.Handler {
	if a.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimiter.Middleware(a.limiter, ratelimiter.ByIP(scope), a.log)
}

func serve(ctx context.Context, a *app) error {
	defer a.close(ctx)
	srv := httpserver.NewFromConfig(a.cfg.HTTP,
		httpserver.WithLogger(a.log),
		httpserver.WithStopHook(func() { a.close(ctx) }),
	)
	return srv.Run(ctx, a.router())
}

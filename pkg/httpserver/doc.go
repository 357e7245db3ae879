// Package httpserver runs the storefront API with graceful shutdown.
//
// Server binds its listener before serving, so start failures are returned
// from Run straight away and Addr reports the real port when the configured
// one is 0. Run returns when its context is cancelled, on SIGINT or SIGTERM,
// or after Shutdown.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func() { pool.Close() }),
//	)
//	r.Use(httpserver.CORS(cfg.HTTP.CORSOrigins))
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	))
//	err := srv.Run(ctx, r)
//
// Start failures are joined with ErrStart and shutdown failures with
// ErrShutdown.
package httpserver

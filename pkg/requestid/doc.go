// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a client supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-], otherwise it generates a UUID. The id is
// stored in the request context, echoed in the response header, and added
// to log records through LoggerExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid

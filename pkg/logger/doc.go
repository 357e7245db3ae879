// Package logger builds the *slog.Logger shared by the storefront binaries.
//
// New takes functional options; NewFromConfig reads them from Config
// (APP_ENV, APP_NAME, LOG_LEVEL, LOG_FORMAT). Development logs are text at
// debug level, staging and production logs are JSON at info level.
//
// Request scoped values reach every record through ContextExtractor
// callbacks registered with WithContextExtractors:
//
//	log := logger.New(
//		logger.WithProduction("storefront"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "session created", logger.SessionID(s.ID))
//
// The attribute helpers in attr.go keep key names consistent. Error and
// Errors return an empty attribute for nil errors, and TokenPrefix never
// emits more than the first ten characters of a secret.
package logger

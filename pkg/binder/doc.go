// Package binder binds HTTP request data to Go structs.
//
// Each binder is a func(r *http.Request, v any) error that handler.Wrap
// runs in order before calling the typed handler:
//
//   - JSON  – application/json bodies (1MB limit, strings trimmed)
//   - Form  – urlencoded and multipart forms, including `file:"name"` fields
//   - Query – `query:"name"` fields from the URL query
//   - Path  – `path:"name"` fields through a router extractor such as chi.URLParam
//
// # Usage
//
//	type CheckoutRequest struct {
//	    Amount   int    `json:"amount"`
//	    Currency string `json:"currency"`
//	}
//
//	r.Post("/api/create-checkout-session", handler.Wrap(checkout,
//	    handler.WithBinders[handler.Context, CheckoutRequest](binder.JSON()),
//	))
//
// # Errors
//
// Every failure wraps one of the package sentinels (ErrFailedToParseJSON,
// ErrUnsupportedMediaType, ...). IsBindError reports whether an error came
// from a binder. JSON decoder errors are wrapped with %w so
// *json.UnmarshalTypeError stays reachable through errors.As.
//
// Uploaded filenames are reduced to their base name with NUL bytes
// removed; "unnamed" replaces empty or special names.
package binder

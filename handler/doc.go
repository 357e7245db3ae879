// Package handler provides type-safe HTTP request handling for the
// storefront API.
//
// A HandlerFunc receives a Context and a request struct populated by the
// binders from pkg/binder, and returns a Response:
//
//	type CheckoutRequest struct {
//		Amount   int    `json:"amount"`
//		Currency string `json:"currency"`
//	}
//
//	func checkout(ctx handler.Context, req CheckoutRequest) handler.Response {
//		sess, err := svc.Create(ctx, req)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(sess)
//	}
//
//	r.Post("/api/create-checkout-session", handler.Wrap(checkout,
//		handler.WithBinders[handler.Context, CheckoutRequest](binder.JSON()),
//	))
//
// # Responses
//
//	handler.JSON(v)                          // 200 with v as the body
//	handler.JSON(v, handler.WithJSONStatus(201))
//	handler.JSONError(err)                   // ErrorBody, status from ClassifyError
//	handler.Empty()                          // 204
//	handler.SSE(fn)                          // event stream of DataStar signal patches
//
// # Errors
//
// ClassifyError maps errors to responses: validator.ValidationErrors become 400 with
// the first field message, HTTPError keeps its code, binder errors become
// 400, and anything else is a 500 with a generic message. NewErrorHandler
// logs each failure with the request id before rendering it.
package handler

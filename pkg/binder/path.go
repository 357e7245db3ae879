package binder

import (
	"fmt"
	"net/http"
)

// Path binds route parameters through extractor, e.g. chi.URLParam.
// Only `path:"name"` fields are touched, so Path composes with the body
// binders on the same struct.
//
//	r.Delete("/api/session/user/{userID}", handler.Wrap(revokeUser,
//		handler.WithBinders[handler.Context, RevokeUserRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: no extractor", ErrFailedToParsePath)
		}
		rv, err := structTarget(v, ErrFailedToParsePath)
		if err != nil {
			return err
		}
		return bindValues(rv, "path", false, func(key string) []string {
			if s := extractor(r, key); s != "" {
				return []string{s}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}

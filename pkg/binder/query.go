package binder

import "net/http"

// Query binds URL query parameters.
//
// Fields use `query:"name"`; `query:"-"` skips a field and untagged fields
// are looked up by their lowercased name. Slices accept repeated
// parameters as well as comma-separated values.
//
//	type StreamRequest struct {
//		ProjectID string `query:"projectId"`
//		APIKey    string `query:"apiKey"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv, err := structTarget(v, ErrFailedToParseQuery)
		if err != nil {
			return err
		}
		q := r.URL.Query()
		return bindValues(rv, "query", true, func(key string) []string { return q[key] }, ErrFailedToParseQuery)
	}
}

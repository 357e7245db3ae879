package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
)

// DefaultMaxJSONSize limits JSON request bodies.
const DefaultMaxJSONSize = 1 << 20

// JSON binds an application/json body. The body must hold exactly one
// value and fit in DefaultMaxJSONSize. String fields are trimmed and
// stripped of NUL bytes after decoding.
//
// Decoder errors are wrapped with %w, so *json.UnmarshalTypeError stays
// reachable for reporting the offending field.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		mt, _, err := mediaType(r)
		if errors.Is(err, ErrMissingContentType) {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		if mt != "application/json" {
			return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, mt)
		}

		body := http.MaxBytesReader(nil, r.Body, DefaultMaxJSONSize)
		dec := json.NewDecoder(body)
		if err := dec.Decode(v); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.Is(err, io.EOF):
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			case errors.As(err, &tooLarge):
				return fmt.Errorf("%w: body too large (max %d bytes)", ErrFailedToParseJSON, DefaultMaxJSONSize)
			}
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}
		if dec.More() {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}

		cleanStrings(reflect.ValueOf(v))
		return nil
	}
}

func cleanStrings(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !rv.IsNil() {
			cleanStrings(rv.Elem())
		}
	case reflect.Struct:
		for i := range rv.NumField() {
			if f := rv.Field(i); f.CanSet() {
				cleanStrings(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			cleanStrings(rv.Index(i))
		}
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(strings.TrimSpace(strings.ReplaceAll(rv.String(), "\x00", "")))
		}
	}
}

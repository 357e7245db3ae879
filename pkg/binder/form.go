package binder

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"reflect"
	"strings"
)

// DefaultMaxMemory caps the part of a multipart body kept in memory; the
// rest spills to temporary files.
const DefaultMaxMemory = 10 << 20

// RFC 2046 limit.
const maxBoundaryLen = 70

var fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()

// Form binds application/x-www-form-urlencoded and multipart/form-data
// bodies.
//
// `form:"name"` fields take values the same way Query does. `file:"name"`
// fields take uploads and must be *multipart.FileHeader or a slice of
// them. Upload filenames are reduced to a safe base name.
//
//	type UploadRequest struct {
//		Kind string                `path:"kind"`
//		File *multipart.FileHeader `file:"file"`
//	}
//
//	r.Post("/api/uploads/{kind}", handler.Wrap(upload,
//		handler.WithBinders[handler.Context, UploadRequest](binder.Path(chi.URLParam), binder.Form()),
//	))
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mt, params, err := mediaType(r)
		switch {
		case errors.Is(err, ErrMissingContentType):
			return fmt.Errorf("%w: expected a form body", ErrMissingContentType)
		case err != nil && mt == "multipart/form-data":
			return fmt.Errorf("%w: malformed content type: %w", ErrFailedToParseForm, err)
		}

		var files map[string][]*multipart.FileHeader
		switch mt {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
		case "multipart/form-data":
			if !validBoundary(params["boundary"]) {
				return fmt.Errorf("%w: missing or invalid multipart boundary", ErrFailedToParseForm)
			}
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			if r.MultipartForm != nil {
				files = r.MultipartForm.File
			}
		default:
			return fmt.Errorf("%w: got %q, expected a form body", ErrUnsupportedMediaType, mt)
		}

		rv, err := structTarget(v, ErrFailedToParseForm)
		if err != nil {
			return err
		}
		if err := bindValues(rv, "form", false, func(key string) []string { return r.Form[key] }, ErrFailedToParseForm); err != nil {
			return err
		}
		return walkTagged(rv, "file", false, func(key string, sf reflect.StructField, fv reflect.Value) error {
			uploads := files[key]
			if len(uploads) == 0 {
				return nil
			}
			if err := assignFiles(fv, uploads); err != nil {
				return fmt.Errorf("%w: field %s: %w", ErrFailedToParseForm, sf.Name, err)
			}
			return nil
		})
	}
}

func assignFiles(fv reflect.Value, uploads []*multipart.FileHeader) error {
	for _, fh := range uploads {
		fh.Filename = cleanFilename(fh.Filename)
	}

	switch {
	case fv.Type() == fileHeaderType:
		fv.Set(reflect.ValueOf(uploads[0]))
	case fv.Kind() == reflect.Slice && fv.Type().Elem() == fileHeaderType:
		fv.Set(reflect.ValueOf(append([]*multipart.FileHeader(nil), uploads...)))
	default:
		return fmt.Errorf("file fields must be *multipart.FileHeader or []*multipart.FileHeader, got %s", fv.Type())
	}
	return nil
}

// cleanFilename strips directories and NUL bytes from a client supplied
// name.
func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "unnamed"
	}
	return name
}

func validBoundary(b string) bool {
	if b == "" || len(b) > maxBoundaryLen || strings.HasSuffix(b, " ") {
		return false
	}
	for _, c := range b {
		alnum := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if !alnum && !strings.ContainsRune("'()+_,-./:=? ", c) {
			return false
		}
	}
	return true
}

package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")

	// ErrBinderNotApplicable lets a binder opt out of a request; Wrap skips it.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)

// IsBindError reports whether err came from one of the binders and should
// be answered with a client error.
func IsBindError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrMissingContentType) ||
		errors.Is(err, ErrFailedToParseJSON) ||
		errors.Is(err, ErrFailedToParseForm) ||
		errors.Is(err, ErrFailedToParseQuery) ||
		errors.Is(err, ErrFailedToParsePath)
}

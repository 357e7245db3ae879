package provision

import "errors"

var (
	ErrMissingCredentials  = errors.New("provision: project id and api key are required")
	ErrInvalidCredentials  = errors.New("provision: credentials rejected")
	ErrUnknownAction       = errors.New("provision: unknown action")
	ErrUnknownCollection   = errors.New("provision: unknown collection type")
	ErrInvalidRequest      = errors.New("provision: invalid request")
	ErrNotReady            = errors.New("provision: collection not ready")
	ErrConnectionFailed    = errors.New("provision: backend unreachable")
	ErrNoStorage           = errors.New("provision: no object storage configured")
	ErrCredentialsNotFound = errors.New("provision: no saved credentials")
)

// IsClientError reports whether err was caused by the request rather than
// the backend.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrUnknownCollection) ||
		errors.Is(err, ErrInvalidRequest)
}

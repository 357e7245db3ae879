package session

import "errors"

var (
	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionInactive indicates the session was revoked
	ErrSessionInactive = errors.New("session.inactive")

	// ErrValidationPending is returned to a caller that raced with an in-flight
	// validation of the same token before any result was cached
	ErrValidationPending = errors.New("session.validation_pending")

	// ErrInvalidSession indicates a malformed session value
	ErrInvalidSession = errors.New("session.invalid")

	// ErrInvalidUserID indicates an empty user id
	ErrInvalidUserID = errors.New("session.invalid_user_id")

	// ErrDuplicateToken indicates the token is already used by another session
	ErrDuplicateToken = errors.New("session.duplicate_token")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrStorage wraps failures of the backing store
	ErrStorage = errors.New("session.storage_failed")

	// ErrIdentity indicates the ambient identity could not be established
	ErrIdentity = errors.New("session.identity_failed")

	// ErrIssuerRequired indicates a create request without a valid issuer key
	ErrIssuerRequired = errors.New("session.issuer_required")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")

	// ErrUnknownStore indicates an unsupported store driver name
	ErrUnknownStore = errors.New("session.unknown_store")
)

// IsInvalid reports whether err means the token does not map to a usable
// session, as opposed to a backend failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrSessionInactive) ||
		errors.Is(err, ErrValidationPending)
}

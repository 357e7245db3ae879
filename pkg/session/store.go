package session

import (
	"context"
)

// Store defines the interface for session persistence.
// Sessions are never hard-deleted through this interface.
type Store interface {
	// Create persists a new session. Returns ErrDuplicateToken when the token is taken.
	Create(ctx context.Context, session *Session) error

	// FindByToken returns the session with the exact token or ErrSessionNotFound.
	FindByToken(ctx context.Context, token string) (*Session, error)

	// Deactivate sets IsActive to false. Deactivating an inactive session is a no-op.
	// Returns ErrSessionNotFound for an unknown id.
	Deactivate(ctx context.Context, id string) error

	// ListActiveByUser returns every active session of a user.
	ListActiveByUser(ctx context.Context, userID string) ([]*Session, error)
}

package session

import "context"

// IdentityEnsurer makes sure the caller holds an identity that is allowed to
// read and write session records before the manager touches the store.
type IdentityEnsurer interface {
	EnsureIdentity(ctx context.Context) error
}

// IdentityFunc adapts a function to IdentityEnsurer.
type IdentityFunc func(ctx context.Context) error

// EnsureIdentity calls f(ctx).
func (f IdentityFunc) EnsureIdentity(ctx context.Context) error {
	return f(ctx)
}

// noIdentity is used when the store needs no ambient identity.
type noIdentity struct{}

func (noIdentity) EnsureIdentity(context.Context) error { return nil }

package session

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/vidshop/storefront/pkg/logger"
)

const (
	tokenLength   = 64
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// createAttempts bounds retries on a token collision
	createAttempts = 3
)

// Manager issues, validates and revokes sessions.
// It is safe for concurrent use; each Manager owns its cache.
type Manager struct {
	store     Store
	config    Config
	transport Transport
	keeper    TokenKeeper
	identity  IdentityEnsurer
	log       *slog.Logger
	now       func() time.Time
	cache     *validationCache
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.transport == nil {
		m.transport = NewTransport(m.config)
	}
	if m.keeper == nil {
		m.keeper = NewMemoryKeeper()
	}
	if m.identity == nil {
		m.identity = noIdentity{}
	}

	m.log = m.log.With(logger.Component("session"))
	m.cache = newValidationCache(m.config.CacheTTL, m.config.HitLogInterval, m.now, m.log)

	return m
}

// Config returns the active configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Transport returns the transport used by the HTTP helpers.
func (m *Manager) Transport() Transport {
	return m.transport
}

// Create starts a session for userID, seeds the validation cache and keeps
// the token as the current one.
func (m *Manager) Create(ctx context.Context, userID, userAgent string) (*Session, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if err := m.identity.EnsureIdentity(ctx); err != nil {
		m.log.ErrorContext(ctx, "failed to establish identity", logger.Error(err))
		return nil, errors.Join(ErrIdentity, err)
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: truncateUserAgent(userAgent),
		CreatedAt: now,
		ExpiresAt: now.Add(m.config.Lifetime),
		IsActive:  true,
	}

	var err error
	for range createAttempts {
		s.Token, err = generateToken()
		if err != nil {
			return nil, err
		}

		err = m.store.Create(ctx, s)
		if !errors.Is(err, ErrDuplicateToken) {
			break
		}
	}
	if err != nil {
		m.log.ErrorContext(ctx, "failed to create session", logger.UserID(userID), logger.Error(err))
		return nil, errors.Join(ErrStorage, err)
	}

	m.cache.put(s.Token, s, nil)

	if err := m.keeper.SetToken(ctx, s.Token); err != nil {
		m.log.WarnContext(ctx, "failed to keep session token", logger.Error(err))
	}

	m.log.InfoContext(ctx, "session created", logger.SessionID(s.ID), logger.UserID(userID))
	return s.clone(), nil
}

// Validate returns the usable session for token.
//
// Results, including rejections, are cached for Config.CacheTTL. A caller
// that arrives while another validation of the same token is running gets
// the current cache entry right away; when there is none it gets
// ErrValidationPending. An expired session is deactivated before
// ErrSessionExpired is returned.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	if err := m.identity.EnsureIdentity(ctx); err != nil {
		return nil, errors.Join(ErrIdentity, err)
	}

	entry, t, served := m.cache.acquire(token)
	if served {
		return entry.session, entry.reason
	}

	m.log.DebugContext(ctx, "validating session", logger.TokenPrefix(token))

	s, err := m.store.FindByToken(ctx, token)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		m.cache.finish(t, nil, ErrSessionNotFound)
		return nil, ErrSessionNotFound
	case err != nil:
		m.cache.abandon(t)
		m.log.ErrorContext(ctx, "failed to look up session", logger.TokenPrefix(token), logger.Error(err))
		return nil, errors.Join(ErrStorage, err)
	}

	if !s.IsActive {
		m.cache.finish(t, nil, ErrSessionInactive)
		return nil, ErrSessionInactive
	}

	if s.ExpiredAt(m.now()) {
		m.log.InfoContext(ctx, "session expired, deactivating", logger.SessionID(s.ID))
		if err := m.Revoke(ctx, s.ID); err != nil {
			m.log.WarnContext(ctx, "failed to deactivate expired session", logger.SessionID(s.ID), logger.Error(err))
		}
		// Revoke reset the cache; record the rejection for this token explicitly.
		m.cache.put(token, nil, ErrSessionExpired)
		m.cache.abandon(t)
		return nil, ErrSessionExpired
	}

	m.cache.finish(t, s, nil)
	return s.clone(), nil
}

// Revoke deactivates a session. The whole validation cache and the kept
// token are cleared. Revoking an inactive session succeeds.
func (m *Manager) Revoke(ctx context.Context, id string) error {
	if err := m.identity.EnsureIdentity(ctx); err != nil {
		return errors.Join(ErrIdentity, err)
	}

	err := m.store.Deactivate(ctx, id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		m.log.ErrorContext(ctx, "failed to deactivate session", logger.SessionID(id), logger.Error(err))
		return errors.Join(ErrStorage, err)
	}

	m.forget(ctx)
	return err
}

// RevokeAllForUser deactivates every active session of userID and returns
// how many were revoked. Failures on single sessions do not stop the rest.
func (m *Manager) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}
	if err := m.identity.EnsureIdentity(ctx); err != nil {
		return 0, errors.Join(ErrIdentity, err)
	}

	sessions, err := m.store.ListActiveByUser(ctx, userID)
	if err != nil {
		m.log.ErrorContext(ctx, "failed to list user sessions", logger.UserID(userID), logger.Error(err))
		return 0, errors.Join(ErrStorage, err)
	}

	var (
		revoked int
		errs    []error
	)
	for _, s := range sessions {
		if err := m.store.Deactivate(ctx, s.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			errs = append(errs, err)
			continue
		}
		revoked++
	}

	m.forget(ctx)

	if len(errs) > 0 {
		m.log.ErrorContext(ctx, "failed to deactivate some sessions",
			logger.UserID(userID), logger.Errors(errs...))
		return revoked, errors.Join(append([]error{ErrStorage}, errs...)...)
	}

	m.log.InfoContext(ctx, "user sessions revoked", logger.UserID(userID), slog.Int("count", revoked))
	return revoked, nil
}

// Current validates the kept token.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	token, ok := m.keeper.Token(ctx)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.Validate(ctx, token)
}

// CreateOrNil is Create with failures logged and collapsed to nil.
func (m *Manager) CreateOrNil(ctx context.Context, userID, userAgent string) *Session {
	s, err := m.Create(ctx, userID, userAgent)
	if err != nil {
		return nil
	}
	return s
}

// ValidateOrNil is Validate with every rejection and failure collapsed to nil.
func (m *Manager) ValidateOrNil(ctx context.Context, token string) *Session {
	s, err := m.Validate(ctx, token)
	if err != nil {
		if !IsInvalid(err) {
			m.log.WarnContext(ctx, "session validation degraded to anonymous", logger.Error(err))
		}
		return nil
	}
	return s
}

// CurrentOrNil is Current with every rejection and failure collapsed to nil.
func (m *Manager) CurrentOrNil(ctx context.Context) *Session {
	token, ok := m.keeper.Token(ctx)
	if !ok {
		return nil
	}
	return m.ValidateOrNil(ctx, token)
}

// forget clears the validation cache and the kept token.
func (m *Manager) forget(ctx context.Context) {
	m.cache.reset()
	if err := m.keeper.ClearToken(ctx); err != nil {
		m.log.WarnContext(ctx, "failed to clear kept session token", logger.Error(err))
	}
}

// generateToken creates a cryptographically secure alphanumeric token
func generateToken() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	b := make([]byte, tokenLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Join(ErrTokenGeneration, err)
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b), nil
}

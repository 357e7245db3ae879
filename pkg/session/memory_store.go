package session

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in memory. Sessions are copied on the way in
// and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	byToken map[string]string // token -> id
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Session),
		byToken: make(map[string]string),
	}
}

// Create stores a new session
func (m *MemoryStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" || session.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byToken[session.Token]; taken {
		return ErrDuplicateToken
	}
	if _, exists := m.byID[session.ID]; exists {
		return ErrInvalidSession
	}

	m.byID[session.ID] = session.clone()
	m.byToken[session.Token] = session.ID
	return nil
}

// FindByToken retrieves a session by exact token
func (m *MemoryStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.byID[id].clone(), nil
}

// Deactivate marks a session inactive
func (m *MemoryStore) Deactivate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.IsActive = false
	return nil
}

// ListActiveByUser returns active sessions of a user, oldest first
func (m *MemoryStore) ListActiveByUser(ctx context.Context, userID string) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Session
	for _, s := range m.byID {
		if s.UserID == userID && s.IsActive {
			out = append(out, s.clone())
		}
	}
	sortByCreated(out)
	return out, nil
}

func sortByCreated(list []*Session) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
}

// Stats returns memory store statistics
func (m *MemoryStore) Stats() (total, active int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total = len(m.byID)
	for _, s := range m.byID {
		if s.IsActive {
			active++
		}
	}
	return total, active
}

package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vidshop/storefront/pkg/session"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingStore counts lookups and can hold them until released.
type countingStore struct {
	*session.MemoryStore

	finds   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: session.NewMemoryStore()}
}

// block makes the next lookups wait for unblock.
func (s *countingStore) block() {
	s.entered = make(chan struct{}, 8)
	s.release = make(chan struct{})
}

func (s *countingStore) unblock() {
	close(s.release)
}

func (s *countingStore) FindByToken(ctx context.Context, token string) (*session.Session, error) {
	s.finds.Add(1)
	if s.release != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.MemoryStore.FindByToken(ctx, token)
}

func (s *countingStore) Finds() int {
	return int(s.finds.Load())
}

func newTestManager(t *testing.T, store session.Store, clock *fakeClock, opts ...session.Option) *session.Manager {
	t.Helper()
	base := []session.Option{
		session.WithStore(store),
		session.WithClock(clock.Now),
	}
	return session.New(append(base, opts...)...)
}

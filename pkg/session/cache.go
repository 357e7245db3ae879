package session

import (
	"log/slog"
	"sync"
	"time"
)

// cacheEntry is a validation result. A nil session is a cached negative
// result and reason tells why it was rejected.
type cacheEntry struct {
	session  *Session
	reason   error
	cachedAt time.Time
}

// ticket is handed to the caller that owns an in-flight validation.
type ticket struct {
	token string
	gen   uint64
}

// validationCache serves recent validation results and suppresses duplicate
// lookups for a token that is already being validated. A second caller for
// an in-flight token gets the current entry immediately, stale or not, and
// never waits for the first lookup to finish.
type validationCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	entries  map[string]cacheEntry
	inflight map[string]struct{}
	gen      uint64

	log         *slog.Logger
	logInterval time.Duration
	hits        int
	lastLog     time.Time
}

func newValidationCache(ttl, logInterval time.Duration, now func() time.Time, log *slog.Logger) *validationCache {
	return &validationCache{
		ttl:         ttl,
		now:         now,
		entries:     make(map[string]cacheEntry),
		inflight:    make(map[string]struct{}),
		log:         log,
		logInterval: logInterval,
	}
}

// acquire either answers from the cache (served == true) or marks the token
// in flight and returns a ticket the caller must pass to finish or abandon.
// Check and mark happen under one lock, so two concurrent callers can never
// both start a lookup for the same token.
func (c *validationCache) acquire(token string) (e cacheEntry, t ticket, served bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[token]; busy {
		if cur, ok := c.entries[token]; ok {
			return cur.copy(), ticket{}, true
		}
		return cacheEntry{reason: ErrValidationPending}, ticket{}, true
	}

	now := c.now()
	if cur, ok := c.entries[token]; ok && now.Sub(cur.cachedAt) < c.ttl {
		c.recordHitLocked(now)
		return cur.copy(), ticket{}, true
	}

	c.inflight[token] = struct{}{}
	return cacheEntry{}, ticket{token: token, gen: c.gen}, false
}

// finish stores the lookup result and clears the in-flight marker. Results
// from a lookup that started before the last reset are dropped so a revoke
// that raced with the lookup is not undone.
func (c *validationCache) finish(t ticket, s *Session, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inflight, t.token)
	if t.gen != c.gen {
		return
	}
	c.entries[t.token] = cacheEntry{session: s.clone(), reason: reason, cachedAt: c.now()}
}

// abandon clears the in-flight marker without caching anything.
func (c *validationCache) abandon(t ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, t.token)
}

// put seeds the cache with a known result.
func (c *validationCache) put(token string, s *Session, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = cacheEntry{session: s.clone(), reason: reason, cachedAt: c.now()}
}

// reset drops every cached entry.
func (c *validationCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.gen++
}

// size returns the number of cached entries.
func (c *validationCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *validationCache) recordHitLocked(now time.Time) {
	c.hits++
	if now.Sub(c.lastLog) <= c.logInterval {
		return
	}
	c.log.Debug("serving sessions from cache",
		slog.Int("hits", c.hits),
		slog.Duration("window", c.logInterval),
	)
	c.hits = 0
	c.lastLog = now
}

func (e cacheEntry) copy() cacheEntry {
	e.session = e.session.clone()
	return e
}

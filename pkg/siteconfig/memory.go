package siteconfig

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps the document in memory.
type MemoryRepository struct {
	mu  sync.RWMutex
	doc *SiteConfig
	now func() time.Time
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Get(context.Context) (*SiteConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.doc == nil {
		return nil, ErrNotFound
	}
	return clone(r.doc), nil
}

func (r *MemoryRepository) Save(_ context.Context, cfg *SiteConfig) error {
	if cfg == nil {
		return ErrInvalidConfig
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = prepare(cfg, r.now())
	return nil
}

func (r *MemoryRepository) EnsureDefault(_ context.Context, def *SiteConfig) (bool, error) {
	if def == nil {
		return false, ErrInvalidConfig
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc != nil {
		return false, nil
	}
	r.doc = prepare(def, r.now())
	return true, nil
}

// prepare copies cfg and fills ID and UpdatedAt.
func prepare(cfg *SiteConfig, now time.Time) *SiteConfig {
	c := clone(cfg)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Crypto == nil {
		c.Crypto = []string{}
	}
	c.UpdatedAt = now.UTC()
	return c
}

func clone(cfg *SiteConfig) *SiteConfig {
	c := *cfg
	c.Crypto = slices.Clone(cfg.Crypto)
	return &c
}

package catalog

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps videos in memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	videos map[string]*Video
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{videos: make(map[string]*Video)}
}

func (r *MemoryRepository) Insert(_ context.Context, v *Video) error {
	if v == nil || v.ID == "" {
		return ErrInvalidVideo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[v.ID]; ok {
		return ErrInvalidVideo
	}
	r.videos[v.ID] = v.clone()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v.clone(), nil
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]*Video, error) {
	r.mu.RLock()
	out := make([]*Video, 0, len(r.videos))
	for _, v := range r.videos {
		if f.ActiveOnly && !v.IsActive {
			continue
		}
		out = append(out, v.clone())
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Video) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) SetFields(_ context.Context, id string, fields map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return ErrNotFound
	}

	next := v.clone()
	for name, value := range fields {
		p := next.field(name)
		if p == nil {
			return ErrUnknownField
		}
		*p = value
	}
	r.videos[id] = next
	return nil
}

func (r *MemoryRepository) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.Views++
	return nil
}

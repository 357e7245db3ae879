package provision

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrAlreadyExists is returned by backends for an attribute or index that
// is already in place. The orchestrator treats it as success.
var ErrAlreadyExists = errors.New("provision: already exists")

// Backend is the document store being provisioned.
type Backend interface {
	// Ping checks that the backend is reachable with the current credentials.
	Ping(ctx context.Context) error
	// EnsureDatabase creates the database and reports whether it was created.
	EnsureDatabase(ctx context.Context) (bool, error)
	// EnsureCollection creates the collection and reports whether it was created.
	EnsureCollection(ctx context.Context, spec CollectionSpec) (bool, error)
	// CollectionExists is the consistency signal polled after creation.
	CollectionExists(ctx context.Context, id string) (bool, error)
	// EnsureAttribute adds one attribute to a collection.
	EnsureAttribute(ctx context.Context, collection string, attr Attribute) error
	// EnsureIndex adds one index to a collection.
	EnsureIndex(ctx context.Context, collection string, idx Index) error
}

// MemoryBackend is an in-process Backend. Failures can be injected per
// attribute or index key.
type MemoryBackend struct {
	mu          sync.Mutex
	database    bool
	collections map[string]*memoryCollection
	failures    map[string]error
	pingErr     error
}

type memoryCollection struct {
	attributes []string
	indexes    []string
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		collections: make(map[string]*memoryCollection),
		failures:    make(map[string]error),
	}
}

// FailOn makes every later attribute or index step with the given key fail.
func (b *MemoryBackend) FailOn(key string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key] = err
}

// FailPing makes Ping return err.
func (b *MemoryBackend) FailPing(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pingErr = err
}

func (b *MemoryBackend) Ping(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pingErr
}

func (b *MemoryBackend) EnsureDatabase(context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	created := !b.database
	b.database = true
	return created, nil
}

func (b *MemoryBackend) EnsureCollection(_ context.Context, spec CollectionSpec) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.collections[spec.ID]; ok {
		return false, nil
	}
	b.collections[spec.ID] = &memoryCollection{}
	return true, nil
}

func (b *MemoryBackend) CollectionExists(_ context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.collections[id]
	return ok, nil
}

func (b *MemoryBackend) EnsureAttribute(_ context.Context, collection string, attr Attribute) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failures[attr.Key]; err != nil {
		return err
	}
	c, ok := b.collections[collection]
	if !ok {
		return ErrNotReady
	}
	if slices.Contains(c.attributes, attr.Key) {
		return ErrAlreadyExists
	}
	c.attributes = append(c.attributes, attr.Key)
	return nil
}

func (b *MemoryBackend) EnsureIndex(_ context.Context, collection string, idx Index) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failures[idx.Key]; err != nil {
		return err
	}
	c, ok := b.collections[collection]
	if !ok {
		return ErrNotReady
	}
	if slices.Contains(c.indexes, idx.Key) {
		return ErrAlreadyExists
	}
	c.indexes = append(c.indexes, idx.Key)
	return nil
}

// Attributes returns the attribute keys of a collection.
func (b *MemoryBackend) Attributes(collection string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.collections[collection]; ok {
		return slices.Clone(c.attributes)
	}
	return nil
}

// Indexes returns the index keys of a collection.
func (b *MemoryBackend) Indexes(collection string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.collections[collection]; ok {
		return slices.Clone(c.indexes)
	}
	return nil
}

package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKeeper holds the token of the current session between calls, the way
// a browser keeps it in local storage.
type TokenKeeper interface {
	Token(ctx context.Context) (string, bool)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryKeeper keeps the current token in memory.
type MemoryKeeper struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryKeeper creates an empty in-memory keeper.
func NewMemoryKeeper() *MemoryKeeper {
	return &MemoryKeeper{}
}

func (k *MemoryKeeper) Token(context.Context) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.token, k.token != ""
}

func (k *MemoryKeeper) SetToken(_ context.Context, token string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = token
	return nil
}

func (k *MemoryKeeper) ClearToken(context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = ""
	return nil
}

// FileKeeper keeps the current token in a file readable only by the owner.
// It is used by the CLI so the session survives between invocations.
type FileKeeper struct {
	mu   sync.Mutex
	path string
}

// NewFileKeeper creates a keeper backed by path.
func NewFileKeeper(path string) *FileKeeper {
	return &FileKeeper{path: path}
}

func (k *FileKeeper) Token(context.Context) (string, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := os.ReadFile(k.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (k *FileKeeper) SetToken(_ context.Context, token string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(k.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(k.path, []byte(token), 0o600)
}

func (k *FileKeeper) ClearToken(context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := os.Remove(k.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

package provision

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// CredentialsStore persists the credentials of the last successful setup.
type CredentialsStore interface {
	Save(ctx context.Context, creds Credentials) error
	// Load returns the saved credentials, falling back to the environment.
	// It returns ErrCredentialsNotFound when neither has a complete pair.
	Load(ctx context.Context) (Credentials, error)
	Clear(ctx context.Context) error
}

// HasCredentials reports whether store can produce a complete pair.
func HasCredentials(ctx context.Context, store CredentialsStore) bool {
	creds, err := store.Load(ctx)
	return err == nil && creds.Complete()
}

// SecretCodec seals the API key at rest. *secrets.Codec satisfies it.
type SecretCodec interface {
	EncryptField(value string) (string, error)
	DecryptField(value string) string
}

type credentialsFile struct {
	ProjectID string    `yaml:"project_id"`
	APIKey    string    `yaml:"api_key"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// FileCredentialsStore keeps credentials in a YAML file readable only by
// the owner. The API key is encrypted when a codec is set.
type FileCredentialsStore struct {
	mu       sync.Mutex
	path     string
	codec    SecretCodec
	fallback Credentials
}

// NewFileCredentialsStore creates a store at path. fallback is returned by
// Load when the file holds nothing usable.
func NewFileCredentialsStore(path string, codec SecretCodec, fallback Credentials) *FileCredentialsStore {
	return &FileCredentialsStore{path: path, codec: codec, fallback: fallback}
}

func (s *FileCredentialsStore) Save(_ context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}

	key := creds.APIKey
	if s.codec != nil {
		sealed, err := s.codec.EncryptField(key)
		if err != nil {
			return err
		}
		key = sealed
	}

	data, err := yaml.Marshal(credentialsFile{
		ProjectID: creds.ProjectID,
		APIKey:    key,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileCredentialsStore) Load(context.Context) (Credentials, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if err == nil {
		var f credentialsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Credentials{}, err
		}
		creds := Credentials{ProjectID: f.ProjectID, APIKey: f.APIKey}
		if s.codec != nil {
			creds.APIKey = s.codec.DecryptField(creds.APIKey)
		}
		if creds.Complete() {
			return creds, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, err
	}

	if s.fallback.Complete() {
		return s.fallback, nil
	}
	return Credentials{}, ErrCredentialsNotFound
}

func (s *FileCredentialsStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryCredentialsStore keeps credentials in memory.
type MemoryCredentialsStore struct {
	mu       sync.RWMutex
	creds    Credentials
	fallback Credentials
}

// NewMemoryCredentialsStore creates a store with an environment fallback.
func NewMemoryCredentialsStore(fallback Credentials) *MemoryCredentialsStore {
	return &MemoryCredentialsStore{fallback: fallback}
}

func (s *MemoryCredentialsStore) Save(_ context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemoryCredentialsStore) Load(context.Context) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds.Complete() {
		return s.creds, nil
	}
	if s.fallback.Complete() {
		return s.fallback, nil
	}
	return Credentials{}, ErrCredentialsNotFound
}

func (s *MemoryCredentialsStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}

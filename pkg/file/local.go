package file

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const tempPrefix = ".upload-"

// LocalStorage keeps each bucket as a directory under baseDir. Object names
// are query-escaped on disk, so obfuscated names containing "/" or ":" stay
// a single flat file.
type LocalStorage struct {
	baseDir       string
	baseURL       string
	uploadTimeout time.Duration
}

type LocalOption func(*LocalStorage)

// WithLocalUploadTimeout bounds each Put call.
func WithLocalUploadTimeout(d time.Duration) LocalOption {
	return func(s *LocalStorage) { s.uploadTimeout = d }
}

// NewLocalStorage resolves baseDir to an absolute path and creates it.
// baseURL is the prefix the files are served under, e.g. "/files/".
func NewLocalStorage(baseDir, baseURL string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}
	if baseURL != "" {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/"
	}

	s := &LocalStorage{baseDir: abs, baseURL: baseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureBucket creates the bucket directory and reports whether it was new.
func (s *LocalStorage) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	exists, err := s.BucketExists(ctx, bucket)
	if err != nil || exists {
		return false, err
	}
	dir, _ := s.bucketDir(bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}
	return true, nil
}

func (s *LocalStorage) BucketExists(_ context.Context, bucket string) (bool, error) {
	dir, err := s.bucketDir(bucket)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	return info.IsDir(), nil
}

// Put streams r into a temp file in the bucket and renames it into place,
// so a reader sees either the old object or the complete new one. When size
// is not negative, a short or long body fails with ErrFailedToWriteFile.
func (s *LocalStorage) Put(ctx context.Context, bucket, name string, r io.Reader, size int64) (*Object, error) {
	path, err := s.objectPath(bucket, name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	written, err := writeAtomic(ctx, path, r, size)
	if err != nil {
		return nil, err
	}
	return &Object{
		Bucket:   bucket,
		Name:     name,
		Size:     written,
		MIMEType: MIMEType(name),
		ModTime:  time.Now(),
	}, nil
}

func writeAtomic(ctx context.Context, path string, r io.Reader, size int64) (written int64, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedToCreateFile, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	written, err = io.Copy(tmp, ctxReader{ctx, r})
	switch {
	case ctx.Err() != nil:
		return 0, ctx.Err()
	case err != nil:
		return 0, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	case size >= 0 && written != size:
		return 0, fmt.Errorf("%w: expected %d bytes, got %d", ErrFailedToWriteFile, size, written)
	}

	if err = tmp.Close(); err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	return written, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func (s *LocalStorage) Open(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.objectPath(bucket, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s/%s", ErrFileNotFound, bucket, name)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, bucket, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.objectPath(bucket, name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s/%s", ErrFileNotFound, bucket, name)
	case err != nil:
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *LocalStorage) Exists(_ context.Context, bucket, name string) bool {
	path, err := s.objectPath(bucket, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// List returns the objects of a bucket ordered by name. In-flight uploads
// are not listed.
func (s *LocalStorage) List(ctx context.Context, bucket string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.bucketDir(bucket)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadDirectory, err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		name, err := url.QueryUnescape(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Bucket:   bucket,
			Name:     name,
			Size:     info.Size(),
			MIMEType: MIMEType(name),
			ModTime:  info.ModTime(),
		})
	}
	slices.SortFunc(objects, func(a, b Object) int { return cmp.Compare(a.Name, b.Name) })
	return objects, nil
}

func (s *LocalStorage) URL(bucket, name string) string {
	return s.baseURL + bucket + "/" + url.PathEscape(name)
}

func (s *LocalStorage) bucketDir(bucket string) (string, error) {
	if err := ValidateBucket(bucket); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, bucket), nil
}

// objectPath resolves the file of an object and rejects anything that would
// land outside its bucket directory.
func (s *LocalStorage) objectPath(bucket, name string) (string, error) {
	if err := validateObjectName(name); err != nil {
		return "", err
	}
	dir, err := s.bucketDir(bucket)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, url.QueryEscape(name))
	if filepath.Dir(path) != dir {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}
	return path, nil
}

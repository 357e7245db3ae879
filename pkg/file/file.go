package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Object describes a stored object.
type Object struct {
	Bucket   string
	Name     string
	Size     int64
	MIMEType string
	ModTime  time.Time
}

// Storage is a flat, bucket-scoped object store.
type Storage interface {
	// EnsureBucket creates the bucket if it does not exist.
	// It reports whether the bucket was created by this call.
	EnsureBucket(ctx context.Context, bucket string) (bool, error)
	// BucketExists reports whether the bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// Put stores the content of r under name. size may be -1 when unknown.
	Put(ctx context.Context, bucket, name string, r io.Reader, size int64) (*Object, error)
	// Open returns a reader for the object content. The caller closes it.
	Open(ctx context.Context, bucket, name string) (io.ReadCloser, error)
	// Delete removes a single object.
	Delete(ctx context.Context, bucket, name string) error
	// Exists checks if an object exists.
	Exists(ctx context.Context, bucket, name string) bool
	// List returns every object in the bucket.
	List(ctx context.Context, bucket string) ([]Object, error)
	// URL returns the public URL for an object.
	URL(bucket, name string) string
}

var bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,61}[a-z0-9]$`)

// ValidateBucket checks a logical bucket identifier such as "videos_bucket".
func ValidateBucket(bucket string) error {
	if !bucketPattern.MatchString(bucket) {
		return fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
	}
	return nil
}

func validateObjectName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return nil
}

var extMIMETypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MIMEType infers the content type from the file extension.
// Obfuscated names keep their extension in cleartext so this keeps working.
//
// Example:
//
//	file.MIMEType("video_1757644868956_1066lk_U2F...:d156.MP4") // "video/mp4"
func MIMEType(name string) string {
	if t, ok := extMIMETypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// IsVideoName reports whether the extension belongs to a known video format.
func IsVideoName(name string) bool {
	return strings.HasPrefix(MIMEType(name), "video/")
}

// IsImageName reports whether the extension belongs to a known image format.
func IsImageName(name string) bool {
	return strings.HasPrefix(MIMEType(name), "image/")
}

// GetMIMEType detects the MIME type by reading the file content.
// Uses http.DetectContentType which reads the first 512 bytes to identify file types
// based on magic bytes rather than trusting file extensions (prevents spoofing).
func GetMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	// 512 bytes is the maximum http.DetectContentType reads
	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	return http.DetectContentType(buffer[:n]), nil
}

// ValidateSize checks if the file size is within the allowed limit.
func ValidateSize(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", fh.Size, maxBytes, ErrFileTooLarge)
	}
	return nil
}

// ValidateKind checks that the upload matches the expected kind.
// Content sniffing is used first; when it only yields a generic type the
// extension decides, since many video containers are not recognised by
// http.DetectContentType.
func ValidateKind(fh *multipart.FileHeader, kind Kind) error {
	if fh == nil {
		return ErrNilFileHeader
	}

	want := "video/"
	if kind == KindThumbnail {
		want = "image/"
	}

	detected, err := GetMIMEType(fh)
	if err != nil {
		return err
	}
	if strings.HasPrefix(detected, want) {
		return nil
	}
	if isGenericMIME(detected) && strings.HasPrefix(MIMEType(fh.Filename), want) {
		return nil
	}

	return fmt.Errorf("MIME type %s not allowed for %s: %w", detected, kind, ErrMIMETypeNotAllowed)
}

func isGenericMIME(t string) bool {
	return slices.Contains([]string{"application/octet-stream", "text/plain; charset=utf-8"}, t)
}

// SanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks and other security issues.
// Returns "unnamed" for empty or special directory references.
//
// Example:
//
//	safe := file.SanitizeFilename("../../../etc/passwd") // Returns "passwd"
//	safe = file.SanitizeFilename("C:\\Windows\\file.txt") // Returns "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}

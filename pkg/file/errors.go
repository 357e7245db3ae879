package file

import "errors"

// Input.
var (
	ErrNilFileHeader      = errors.New("file: nil file header")
	ErrEmptyFilename      = errors.New("file: empty filename")
	ErrInvalidPath        = errors.New("file: path escapes its bucket")
	ErrInvalidBucket      = errors.New("file: invalid bucket name")
	ErrInvalidKind        = errors.New("file: unknown upload kind")
	ErrFileTooLarge       = errors.New("file: too large")
	ErrMIMETypeNotAllowed = errors.New("file: content type not allowed")
	ErrNoCodec            = errors.New("file: obfuscator needs a codec")

	ErrFailedToGenerateName = errors.New("file: cannot build object name")
)

// Storage backends. S3 error codes are mapped onto these so callers do not
// depend on smithy types.
var (
	ErrFileNotFound       = errors.New("file: not found")
	ErrBucketNotFound     = errors.New("file: bucket not found")
	ErrBucketTaken        = errors.New("file: bucket owned by another account")
	ErrAccessDenied       = errors.New("file: access denied")
	ErrRequestTimeout     = errors.New("file: request timed out")
	ErrServiceUnavailable = errors.New("file: storage unavailable")
	ErrOperationTimeout   = errors.New("file: operation timed out")
	ErrOperationCanceled  = errors.New("file: operation canceled")
)

// Local disk.
var (
	ErrFailedToOpenFile        = errors.New("file: open")
	ErrFailedToReadFile        = errors.New("file: read")
	ErrFailedToWriteFile       = errors.New("file: write")
	ErrFailedToCreateFile      = errors.New("file: create")
	ErrFailedToDeleteFile      = errors.New("file: delete")
	ErrFailedToCreateDirectory = errors.New("file: create directory")
	ErrFailedToReadDirectory   = errors.New("file: read directory")
	ErrFailedToGetAbsolutePath = errors.New("file: resolve path")
)

// Configuration.
var (
	ErrInvalidConfig      = errors.New("file: invalid storage config")
	ErrUnknownDriver      = errors.New("file: unknown storage driver")
	ErrFailedToLoadConfig = errors.New("file: cannot load AWS config")
)

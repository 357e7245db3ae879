package file

import (
	"context"
	"fmt"
)

// Storage drivers.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures a storage backend.
type Config struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDir string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/storage"`
	LocalURL string `env:"STORAGE_LOCAL_URL" envDefault:"/files/"`
	S3       S3Config
}

// NewFromConfig creates the storage backend selected by cfg.Driver.
func NewFromConfig(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocalStorage(cfg.LocalDir, cfg.LocalURL)
	case DriverS3:
		return NewS3Storage(ctx, cfg.S3, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

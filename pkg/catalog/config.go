package catalog

// Config holds upload limits.
type Config struct {
	MaxVideoBytes     int64 `env:"CATALOG_MAX_VIDEO_BYTES" envDefault:"524288000"`
	MaxThumbnailBytes int64 `env:"CATALOG_MAX_THUMBNAIL_BYTES" envDefault:"10485760"`
	// ListLimit caps GET /api/videos.
	ListLimit int `env:"CATALOG_LIST_LIMIT" envDefault:"100"`
}

// DefaultConfig returns the defaults used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		MaxVideoBytes:     500 << 20,
		MaxThumbnailBytes: 10 << 20,
		ListLimit:         100,
	}
}

func (c Config) maxBytes(isThumbnail bool) int64 {
	if isThumbnail {
		return c.MaxThumbnailBytes
	}
	return c.MaxVideoBytes
}

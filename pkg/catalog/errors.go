package catalog

import "errors"

var (
	ErrNotFound     = errors.New("catalog: video not found")
	ErrInvalidVideo = errors.New("catalog: invalid video")
	ErrUnknownField = errors.New("catalog: unknown field")
)

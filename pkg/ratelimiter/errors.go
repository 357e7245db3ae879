package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrUnknownStore      = errors.New("ratelimiter: unknown store")
	ErrNoRedis           = errors.New("ratelimiter: redis store selected but redis is not configured")
)

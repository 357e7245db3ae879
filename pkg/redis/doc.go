// Package redis dials the optional Redis server. It backs the session
// store when SESSION_STORE=redis and the rate limiter when
// RATELIMIT_STORE=redis; an empty REDIS_URL leaves it off.
package redis

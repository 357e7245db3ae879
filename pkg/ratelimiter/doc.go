// Package ratelimiter throttles the unauthenticated write endpoints with a
// token bucket per client.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds the
// bucket empty is answered with 429 and a Retry-After header.
//
// Buckets live in a Store. MemoryStore serves a single instance;
// RedisStore shares the buckets between instances and refills atomically
// in a Lua script.
//
//	store, err := ratelimiter.NewStore(cfg.Store, redisClient)
//	...
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	...
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByIP("setup"), log)).Mount("/api/setup", setup)
//
// When the store fails the middleware logs and lets the request through.
package ratelimiter

package ratelimiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "storefront:ratelimit:"

// takeScript mirrors MemoryStore.Take on a hash {tokens, last}.
// ARGV: capacity, refill rate, interval ms, now ms, n.
var takeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local n = tonumber(ARGV[5])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local last = tonumber(redis.call('HGET', KEYS[1], 'last'))
if tokens == nil or last == nil then
	tokens = capacity
	last = now
end

local intervals = math.min(math.floor((now - last) / interval), math.floor(capacity / rate) + 1)
if intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	last = last + intervals * interval
	if tokens == capacity then
		last = now
	end
end

local remaining = tokens - n
if remaining >= 0 then
	tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last', last)
redis.call('PEXPIRE', KEYS[1], (math.ceil(capacity / rate) + 1) * interval)
return {remaining, last + interval}
`)

// RedisStore keeps buckets in Redis hashes under {prefix}{key}.
type RedisStore struct {
	db     redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a store. An empty prefix selects the default.
func NewRedisStore(db redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{db: db, prefix: prefix, now: time.Now}
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	out, err := takeScript.Run(ctx, s.db, []string{s.prefix + key},
		cfg.Capacity, cfg.RefillRate, cfg.RefillInterval.Milliseconds(), s.now().UnixMilli(), n,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	return int(out[0]), time.UnixMilli(out[1]), nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.db.Del(ctx, s.prefix+key).Err()
}

// NewStore picks the Store named by driver. db may be nil unless driver is redis.
func NewStore(driver string, db redis.UniversalClient) (Store, error) {
	switch driver {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreRedis:
		if db == nil {
			return nil, ErrNoRedis
		}
		return NewRedisStore(db, ""), nil
	default:
		return nil, ErrUnknownStore
	}
}

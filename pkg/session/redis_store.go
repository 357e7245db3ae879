package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "storefront:session:"

// RedisStore implements Store on Redis. Each session is a JSON value
// under {prefix}id:{id}; {prefix}token:{token} points to the id and
// {prefix}user:{userID} is a set of ids. Keys expire with the session.
type RedisStore struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store. An empty prefix selects the default.
func NewRedisStore(db redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{db: db, prefix: prefix}
}

func (s *RedisStore) idKey(id string) string { return s.prefix + "id:" + id }
func (s *RedisStore) tokenKey(token string) string { return s.prefix + "token:" + token }
func (s *RedisStore) userKey(userID string) string { return s.prefix + "user:" + userID }

// Create stores the session. The token key is claimed with SETNX so two
// sessions can never share a token.
func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	ok, err := s.db.SetNX(ctx, s.tokenKey(session.Token), session.ID, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateToken
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	_, err = s.db.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.idKey(session.ID), data, ttl)
		p.SAdd(ctx, s.userKey(session.UserID), session.ID)
		return nil
	})
	return err
}

// FindByToken fetches the session with the exact token.
func (s *RedisStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	id, err := s.db.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Deactivate rewrites the record with is_active false, keeping its TTL.
func (s *RedisStore) Deactivate(ctx context.Context, id string) error {
	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	sess.IsActive = false

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.SetArgs(ctx, s.idKey(id), data, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
}

// ListActiveByUser returns active sessions of a user, oldest first.
// Ids whose records already expired are pruned from the user set.
func (s *RedisStore) ListActiveByUser(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := s.db.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var out []*Session
	for _, id := range ids {
		sess, err := s.load(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			s.db.SRem(ctx, s.userKey(userID), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if sess.IsActive {
			out = append(out, sess)
		}
	}

	sortByCreated(out)
	return out, nil
}

func (s *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	data, err := s.db.Get(ctx, s.idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

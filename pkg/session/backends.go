package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Backends carries the connections a store may be built on. Only the one
// matching Config.Store needs to be set.
type Backends struct {
	Mongo    *mongo.Database
	Postgres *pgxpool.Pool
	Redis    redis.UniversalClient
}

// NewStore picks the Store implementation named by driver.
func NewStore(driver string, b Backends) (Store, error) {
	switch driver {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreMongo:
		if b.Mongo == nil {
			return nil, ErrNoStore
		}
		return NewMongoStore(b.Mongo), nil
	case StorePostgres:
		if b.Postgres == nil {
			return nil, ErrNoStore
		}
		return NewPostgresStore(b.Postgres), nil
	case StoreRedis:
		if b.Redis == nil {
			return nil, ErrNoStore
		}
		return NewRedisStore(b.Redis, ""), nil
	default:
		return nil, ErrUnknownStore
	}
}

// IndexEnsurer is a Store that needs indexes before first use. The unique
// token index is what makes Create report ErrDuplicateToken.
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// Prepare runs one-time setup a store needs before serving, such as the
// MongoDB indexes. Stores without setup are left alone.
func Prepare(ctx context.Context, store Store) error {
	ix, ok := store.(IndexEnsurer)
	if !ok {
		return nil
	}
	if err := ix.EnsureIndexes(ctx); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

var (
	ErrEmptyConnectionString = errors.New("pg: PG_CONN_URL is empty")
	ErrInvalidConfig         = errors.New("pg: invalid connection string")
	ErrUnreachable           = errors.New("pg: database unreachable")
	ErrPingFailed            = errors.New("pg: ping failed")
)

// Connect opens a pool and waits for the database to answer a ping,
// backing off exponentially between attempts.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if !cfg.Enabled() {
		return nil, ErrEmptyConnectionString
	}

	pc, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	pc.MaxConns = cfg.MaxOpenConns
	pc.MinConns = cfg.MaxIdleConns
	pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	base := cfg.RetryInterval
	if base <= 0 {
		base = time.Second
	}
	backoff := retry.WithMaxRetries(uint64(max(cfg.RetryAttempts, 1)-1), retry.NewExponential(base))

	var pool *pgxpool.Pool
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, pc)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrUnreachable, err)
	}
	return pool, nil
}

// Healthcheck pings the pool; it plugs into httpserver.Check.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrPingFailed, err)
		}
		return nil
	}
}

const uniqueViolation = "23505"

// IsNotFoundError reports whether a query matched no rows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

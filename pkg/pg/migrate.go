package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/vidshop/storefront/pkg/pg/migrations"
)

var (
	ErrMigrationsDirNotFound = errors.New("pg: migrations directory not found")
	ErrMigrationFailed       = errors.New("pg: migration failed")
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	return runGoose(ctx, pool, cfg, log, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, ".")
	})
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	return runGoose(ctx, pool, cfg, log, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, ".")
	})
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	return runGoose(ctx, pool, cfg, log, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, ".")
	})
}

// migrationsFS returns the embedded migrations, or cfg.MigrationsPath when
// it is set.
func migrationsFS(cfg Config) (fs.FS, error) {
	if cfg.MigrationsPath == "" {
		return migrations.FS, nil
	}
	info, err := os.Stat(cfg.MigrationsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrMigrationsDirNotFound, cfg.MigrationsPath)
	case err != nil:
		return nil, errors.Join(ErrMigrationFailed, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMigrationsDirNotFound, cfg.MigrationsPath)
	}
	return os.DirFS(cfg.MigrationsPath), nil
}

func runGoose(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger, fn func(db *sql.DB) error) error {
	fsys, err := migrationsFS(cfg)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.WarnContext(ctx, "closing migration connection", "error", err)
		}
	}()

	if err := fn(db); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// gooseLogger routes goose's printf output into slog.
type gooseLogger struct {
	ctx context.Context
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.InfoContext(l.ctx, fmt.Sprintf(format, v...), "component", "migrate")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.ErrorContext(l.ctx, fmt.Sprintf(format, v...), "component", "migrate")
}

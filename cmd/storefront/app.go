package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidshop/storefront/pkg/catalog"
	"github.com/vidshop/storefront/pkg/checkout"
	"github.com/vidshop/storefront/pkg/clientip"
	"github.com/vidshop/storefront/pkg/config"
	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/httpserver"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/mongo"
	"github.com/vidshop/storefront/pkg/pg"
	"github.com/vidshop/storefront/pkg/provision"
	"github.com/vidshop/storefront/pkg/ratelimiter"
	"github.com/vidshop/storefront/pkg/redis"
	"github.com/vidshop/storefront/pkg/requestid"
	"github.com/vidshop/storefront/pkg/secrets"
	"github.com/vidshop/storefront/pkg/session"
	"github.com/vidshop/storefront/pkg/siteconfig"
)

// appConfig is the whole process configuration, read from the environment
// and an optional .env file.
type appConfig struct {
	Log       logger.Config
	Secrets   secrets.Config
	Session   session.Config
	Postgres  pg.Config
	Mongo     mongo.Config
	Redis     redis.Config
	Storage   file.Config
	Provision provision.Config
	Catalog   catalog.Config
	Checkout  checkout.Config
	HTTP      httpserver.Config
	ClientIP  clientip.Config
	RateLimit ratelimiter.Config
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func newLogger(cfg logger.Config) *slog.Logger {
	log := logger.NewFromConfig(cfg, logger.WithContextExtractors(requestid.LoggerExtractor()))
	logger.SetAsDefault(log)
	return log
}

// backends holds the optional database connections. A nil field means the
// backend is not configured.
type backends struct {
	mongo  *mongodriver.Client
	db     *mongodriver.Database
	pg     *pgxpool.Pool
	redis  *goredis.Client
	checks []httpserver.Check
}

func connect(ctx context.Context, cfg appConfig, log *slog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Mongo.Enabled() {
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		b.mongo = client
		b.db = client.Database(cfg.Mongo.Database)
		b.checks = append(b.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})
	}

	if cfg.Postgres.Enabled() {
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			b.close(ctx, log)
			return nil, fmt.Errorf("postgres: %w", err)
		}
		b.pg = pool
		b.checks = append(b.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			b.close(ctx, log)
			return nil, fmt.Errorf("redis: %w", err)
		}
		b.redis = client
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	if b.db == nil {
		log.WarnContext(ctx, "MONGODB_URL is not set, catalog and setup state are kept in memory")
	}
	return b, nil
}

func (b *backends) close(ctx context.Context, log *slog.Logger) {
	if b.mongo != nil {
		if err := b.mongo.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.ErrorContext(ctx, "mongo disconnect failed", logger.Error(err))
		}
	}
	if b.pg != nil {
		b.pg.Close()
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			log.ErrorContext(ctx, "redis close failed", logger.Error(err))
		}
	}
}

func (b *backends) sessionBackends() session.Backends {
	sb := session.Backends{Mongo: b.db, Postgres: b.pg}
	if b.redis != nil {
		sb.Redis = b.redis
	}
	return sb
}

func (b *backends) rateLimitStore(driver string) (ratelimiter.Store, error) {
	if b.redis != nil {
		return ratelimiter.NewStore(driver, b.redis)
	}
	return ratelimiter.NewStore(driver, nil)
}

// siteConfig prefers mongo, then postgres.
func (b *backends) siteConfig() siteconfig.Repository {
	switch {
	case b.db != nil:
		return siteconfig.NewMongoRepository(b.db)
	case b.pg != nil:
		return siteconfig.NewPostgresRepository(b.pg)
	default:
		return siteconfig.NewMemoryRepository()
	}
}

func (b *backends) catalogRepository() catalog.Repository {
	if b.db != nil {
		return catalog.NewMongoRepository(b.db)
	}
	return catalog.NewMemoryRepository()
}

func (b *backends) provisionBackend() provision.Backend {
	if b.db != nil {
		return provision.NewMongoBackend(b.db)
	}
	return provision.NewMemoryBackend()
}

// app is the assembled object graph shared by the subcommands.
type app struct {
	cfg         appConfig
	log         *slog.Logger
	backends    *backends
	codec       *secrets.Codec
	storage     file.Storage
	names       *file.Obfuscator
	sites       siteconfig.Repository
	sessions    *session.Manager
	videos      *catalog.Service
	provisioner *provision.Provisioner
	checkout    *checkout.Service
	ips         *clientip.Resolver
	limiter     *ratelimiter.Bucket // nil when rate limiting is off
	limitStore  ratelimiter.Store
	closeOnce   sync.Once
}

func newApp(ctx context.Context, cfg appConfig, log *slog.Logger, sessionOpts ...session.Option) (*app, error) {
	codec, err := secrets.NewFromConfig(cfg.Secrets)
	if err != nil {
		return nil, err
	}

	storage, err := file.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	names, err := file.NewObfuscator(codec)
	if err != nil {
		return nil, err
	}

	b, err := connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(cfg.Session.Store, b.sessionBackends())
	if err == nil {
		err = session.Prepare(ctx, store)
	}
	if err != nil {
		b.close(ctx, log)
		return nil, errors.Join(fmt.Errorf("session store %q", cfg.Session.Store), err)
	}

	var (
		limiter    *ratelimiter.Bucket
		limitStore ratelimiter.Store
	)
	if cfg.RateLimit.Enabled {
		if limitStore, err = b.rateLimitStore(cfg.RateLimit.Store); err == nil {
			limiter, err = ratelimiter.NewBucket(limitStore, cfg.RateLimit)
		}
		if err != nil {
			b.close(ctx, log)
			return nil, err
		}
	}

	sites := b.siteConfig()
	creds := provision.NewFileCredentialsStore(cfg.Provision.CredentialsFile, codec, cfg.Provision.EnvCredentials())

	return &app{
		cfg:      cfg,
		log:      log,
		backends: b,
		codec:    codec,
		storage:  storage,
		names:    names,
		sites:    sites,
		sessions: session.NewFromConfig(cfg.Session,
			append([]session.Option{session.WithStore(store), session.WithLogger(log)}, sessionOpts...)...,
		),
		videos: catalog.NewService(b.catalogRepository(), codec, catalog.WithLogger(log)),
		provisioner: provision.New(b.provisionBackend(),
			provision.WithStorage(storage),
			provision.WithSiteConfig(sites),
			provision.WithCredentialsStore(creds),
			provision.WithConfig(cfg.Provision),
			provision.WithLogger(log),
		),
		checkout: checkout.NewService(
			checkout.NewStripeProcessor(cfg.Checkout, log),
			checkout.NewKeyResolver(sites, cfg.Checkout.SecretKey, log),
			checkout.WithConfig(cfg.Checkout),
			checkout.WithLogger(log),
		),
		ips:        clientip.NewFromConfig(cfg.ClientIP),
		limiter:    limiter,
		limitStore: limitStore,
	}, nil
}

func (a *app) close(ctx context.Context) {
	a.closeOnce.Do(func() {
		if m, ok := a.limitStore.(*ratelimiter.MemoryStore); ok {
			m.Close()
		}
		a.backends.close(ctx, a.log)
	})
}

package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// New connects to cfg.ConnectionURL and pings the primary, retrying up to
// cfg.RetryAttempts times at cfg.RetryInterval.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	var client *mongo.Client
	if err := retry.Do(ctx, backoff(cfg), func(ctx context.Context) error {
		c, err := mongo.Connect(clientOptions(cfg))
		if err == nil {
			err = c.Ping(ctx, nil)
			if err != nil {
				_ = c.Disconnect(context.WithoutCancel(ctx))
			}
		}
		if err != nil {
			return retry.RetryableError(err)
		}
		client = c
		return nil
	}); err != nil {
		return nil, errors.Join(ErrFailedToConnectToMongo, err)
	}
	return client, nil
}

func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)
}

func backoff(cfg Config) retry.Backoff {
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}
	return retry.WithMaxRetries(uint64(max(cfg.RetryAttempts, 1)-1), retry.NewConstant(interval))
}

// Healthcheck returns a readiness probe that pings the primary.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrPingFailed, err)
		}
		return nil
	}
}

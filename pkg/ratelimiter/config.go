package ratelimiter

import (
	"fmt"
	"time"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config describes the token bucket shared by all limited routes.
type Config struct {
	Enabled bool `env:"RATELIMIT_ENABLED" envDefault:"true"`
	// Capacity is the burst size.
	Capacity int `env:"RATELIMIT_CAPACITY" envDefault:"20"`
	// RefillRate tokens are added every RefillInterval.
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"3s"`
	// Store is memory or redis.
	Store string `env:"RATELIMIT_STORE" envDefault:"memory"`
}

// DefaultConfig returns the defaults used when nothing is loaded.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Capacity:       20,
		RefillRate:     1,
		RefillInterval: 3 * time.Second,
		Store:          StoreMemory,
	}
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

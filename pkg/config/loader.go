package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig  = errors.New("config: cannot parse environment")
	ErrLoadingEnvFile = errors.New("config: cannot load env file")
	ErrNilPointer     = errors.New("config: nil target")
)

var (
	mu         sync.Mutex
	cache      = map[reflect.Type]any{}
	dotenvRead bool
)

// Load fills v from the environment. Each type is parsed once per process;
// later calls copy the cached value. A failed parse is not cached.
//
// The first call reads .env from the working directory if there is one.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	mu.Lock()
	defer mu.Unlock()

	if !dotenvRead {
		_ = godotenv.Load()
		dotenvRead = true
	}

	key := reflect.TypeFor[T]()
	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load for values the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}

// ForceReloadConfig forgets the cached T and parses it again.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	mu.Lock()
	delete(cache, reflect.TypeFor[T]())
	mu.Unlock()
	return Load(v)
}

// LoadEnv overlays the given .env files onto the process environment, in
// order, overriding variables that are already set. With no paths it reads
// .env from the working directory.
func LoadEnv(paths ...string) error {
	mu.Lock()
	defer mu.Unlock()

	if len(paths) == 0 {
		if err := godotenv.Overload(); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
		return nil
	}
	for _, p := range paths {
		if err := godotenv.Overload(p); err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", p, err))
		}
	}
	return nil
}

func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}

// ResetCache drops every cached type and lets the next Load read .env
// again.
func ResetCache() {
	mu.Lock()
	clear(cache)
	dotenvRead = false
	mu.Unlock()
}

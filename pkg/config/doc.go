// Package config loads typed configuration from the environment.
//
// Every package ships a Config struct with caarlos0/env tags; the binaries
// pass them to Load, which parses each type once and caches it. A .env file
// in the working directory is read through godotenv before the first parse
// and never overrides real environment variables. LoadEnv layers explicit
// files on top and does override them.
package config

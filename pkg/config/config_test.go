package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshop/storefront/pkg/config"
)

// The tests share process env and the package cache, so none run in
// parallel.

type serverConfig struct {
	Addr    string   `env:"CFGTEST_ADDR"    envDefault:":8080"`
	Workers int      `env:"CFGTEST_WORKERS" envDefault:"4"`
	Debug   bool     `env:"CFGTEST_DEBUG"`
	Origins []string `env:"CFGTEST_ORIGINS" envSeparator:","`
}

type secretConfig struct {
	Key string `env:"CFGTEST_KEY,required"`
}

type fileConfig struct {
	Name     string   `env:"TEST_CUSTOM_STRING"`
	Count    int      `env:"TEST_CUSTOM_INT"`
	On       bool     `env:"TEST_CUSTOM_BOOL"`
	Items    []string `env:"TEST_CUSTOM_ARRAY" envSeparator:","`
	Quoted   string   `env:"TEST_CUSTOM_WITH_QUOTES"`
	Priority string   `env:"TEST_PRIORITY"`
	Unique   string   `env:"TEST_OVERRIDE_UNIQUE"`
}

var fileVars = []string{
	"TEST_CUSTOM_STRING", "TEST_CUSTOM_INT", "TEST_CUSTOM_BOOL", "TEST_CUSTOM_ARRAY",
	"TEST_CUSTOM_WITH_QUOTES", "TEST_CUSTOM_EMPTY", "TEST_PRIORITY",
	"TEST_OVERRIDE_UNIQUE", "TEST_MULTIENV_FEATURE",
}

// cleanEnv unsets vars for the test and restores them afterwards.
func cleanEnv(t *testing.T, vars ...string) {
	t.Helper()
	for _, k := range vars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	config.ResetCache()
	t.Cleanup(config.ResetCache)
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cleanEnv(t, "CFGTEST_ADDR", "CFGTEST_WORKERS", "CFGTEST_DEBUG", "CFGTEST_ORIGINS")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, serverConfig{Addr: ":8080", Workers: 4}, cfg)
	})

	t.Run("environment", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv("CFGTEST_ADDR", ":9090")
		t.Setenv("CFGTEST_DEBUG", "true")
		t.Setenv("CFGTEST_ORIGINS", "https://a.example,https://b.example")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.True(t, cfg.Debug)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	})

	t.Run("cached per type", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv("CFGTEST_ADDR", ":1111")

		var first serverConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("CFGTEST_ADDR", ":2222")
		var second serverConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, ":1111", second.Addr)

		var reloaded serverConfig
		require.NoError(t, config.ForceReloadConfig(&reloaded))
		assert.Equal(t, ":2222", reloaded.Addr)
	})

	t.Run("failed parse is retried", func(t *testing.T) {
		cleanEnv(t, "CFGTEST_KEY")

		var cfg secretConfig
		require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)

		t.Setenv("CFGTEST_KEY", "k1")
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "k1", cfg.Key)
	})

	t.Run("nil target", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[serverConfig](nil), config.ErrNilPointer)
		assert.ErrorIs(t, config.ForceReloadConfig[serverConfig](nil), config.ErrNilPointer)
		assert.Panics(t, func() { config.MustLoad[serverConfig](nil) })
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		cleanEnv(t, fileVars...)
		require.NoError(t, config.LoadEnv("testdata/.env.custom"))

		var cfg fileConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, fileConfig{
			Name:     "custom_value",
			Count:    1234,
			On:       true,
			Items:    []string{"item1", "item2", "item3"},
			Quoted:   "quoted value",
			Priority: "custom_file_value",
		}, cfg)
	})

	t.Run("later files win", func(t *testing.T) {
		cleanEnv(t, fileVars...)
		require.NoError(t, config.LoadEnv("testdata/.env.custom", "testdata/.env.override"))

		var cfg fileConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "override_value", cfg.Name)
		assert.Equal(t, 9999, cfg.Count)
		assert.Equal(t, "override_value", cfg.Priority)
		assert.Equal(t, "unique_to_override", cfg.Unique)
		assert.Equal(t, []string{"item1", "item2", "item3"}, cfg.Items)
	})

	t.Run("missing file", func(t *testing.T) {
		cleanEnv(t, fileVars...)
		require.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
		assert.Panics(t, func() { config.MustLoadEnv("testdata/missing.env") })
		assert.NotPanics(t, func() { config.MustLoadEnv("testdata/.env.custom") })
	})

	t.Run("default file", func(t *testing.T) {
		cleanEnv(t, "CFGTEST_DOTENV")
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CFGTEST_DOTENV=from_file\n"), 0o600))
		t.Chdir(dir)

		require.NoError(t, config.LoadEnv())
		assert.Equal(t, "from_file", os.Getenv("CFGTEST_DOTENV"))
		require.NoError(t, os.Unsetenv("CFGTEST_DOTENV"))
	})
}

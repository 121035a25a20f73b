package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register dialects so Validate can resolve names.
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/all"
)

// isolate runs the test in an empty directory so no stray config file is
// picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()
	return dir
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("dialect", "d", "", "")
	fs.StringP("output", "o", "", "")
	fs.String("format", "", "")
	fs.Bool("verbose", false, "")
	fs.Bool("debug", false, "")
	fs.String("lang", "", "")
	fs.String("table", "", "")
	fs.Bool("no-cache", false, "")
	fs.Int("cache-size", 0, "")
	fs.Duration("timeout", 0, "")
	fs.Int("concurrency", 0, "")
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leapdplyr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want, cfg)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
dialect: mysql
output: json
format: pretty
lang: ko
table: events
cache:
  enabled: false
  size: 10
  ttl: 1m
limits:
  max_nesting_depth: 20
  timeout: 5s
batch:
  concurrency: 2
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "pretty", cfg.Format)
	assert.Equal(t, "ko", cfg.Lang)
	assert.Equal(t, "events", cfg.Table)
	assert.Equal(t, CacheConfig{Enabled: false, Size: 10, TTL: time.Minute}, cfg.Cache)
	assert.Equal(t, 20, cfg.Limits.MaxNestingDepth)
	assert.Equal(t, DefaultMaxFunctionCalls, cfg.Limits.MaxFunctionCalls)
	assert.Equal(t, 5*time.Second, cfg.Limits.Timeout)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "leapdplyr.yaml", filepath.Base(cfg.ConfigFile))
}

func TestLoadConfig_FileFoundInParent(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "dialect: sqlite\n")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: duckdb\n"), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Dialect)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_Env(t *testing.T) {
	isolate(t)
	t.Setenv("LEAPDPLYR_DIALECT", "snowflake")
	t.Setenv("LEAPDPLYR_CACHE_SIZE", "42")
	t.Setenv("LEAPDPLYR_LIMITS_TIMEOUT", "2s")
	t.Setenv("LEAPDPLYR_BATCH_CONCURRENCY", "8")
	t.Setenv("LEAPDPLYR_VERBOSE", "true")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "snowflake", cfg.Dialect)
	assert.Equal(t, 42, cfg.Cache.Size)
	assert.Equal(t, 2*time.Second, cfg.Limits.Timeout)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "dialect: mysql\nformat: compact\ntable: from_file\n")
	t.Setenv("LEAPDPLYR_DIALECT", "sqlite")
	t.Setenv("LEAPDPLYR_TABLE", "from_env")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--dialect", "DuckDB", "--no-cache", "--timeout", "3s", "--concurrency", "6"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Dialect, "flag beats env and file")
	assert.Equal(t, "from_env", cfg.Table, "env beats file")
	assert.Equal(t, "compact", cfg.Format, "file beats default")
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Limits.Timeout)
	assert.Equal(t, 6, cfg.Batch.Concurrency)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "dialect: mysql\n")

	flags := newFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
	assert.True(t, cfg.Cache.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "alias dialect", mutate: func(c *Config) { c.Dialect = "pg" }},
		{name: "empty dialect", mutate: func(c *Config) { c.Dialect = "" }, errSubstr: "dialect is required"},
		{name: "unknown dialect", mutate: func(c *Config) { c.Dialect = "oracle" }, errSubstr: "unknown dialect"},
		{name: "unknown output", mutate: func(c *Config) { c.Output = "yaml" }, errSubstr: "unknown output"},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "fancy" }, errSubstr: "unknown format"},
		{name: "unknown lang", mutate: func(c *Config) { c.Lang = "fr" }, errSubstr: "unknown lang"},
		{name: "zero cache size", mutate: func(c *Config) { c.Cache.Size = 0 }, errSubstr: "cache.size must be positive"},
		{name: "negative timeout", mutate: func(c *Config) { c.Limits.Timeout = -time.Second }, errSubstr: "limits.timeout"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Batch.Concurrency = 0 }, errSubstr: "batch.concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "dialect", envKey("LEAPDPLYR_DIALECT"))
	assert.Equal(t, "cache.enabled", envKey("LEAPDPLYR_CACHE_ENABLED"))
	assert.Equal(t, "limits.max_input_length", envKey("LEAPDPLYR_LIMITS_MAX_INPUT_LENGTH"))
}

func TestGetLogger(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	assert.Same(t, logger, GetLogger(WithLogger(ctx, logger)))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&Config{}).LogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{Verbose: true}).LogLevel())
	assert.Equal(t, slog.LevelDebug, (&Config{Verbose: true, Debug: true}).LogLevel())
}

func TestFromContext(t *testing.T) {
	isolate(t)

	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.Dialect = "mysql"
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ErrInvalidConfig wraps every error produced while loading or validating
// configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

// envPrefix is the prefix of environment variables read as configuration.
const envPrefix = "LEAPDPLYR_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// configNames are the config file names looked up, in order.
var configNames = []string{"leapdplyr.yaml", "leapdplyr.yml"}

// sections are the nested config groups. Environment variables address
// them as LEAPDPLYR_<SECTION>_<KEY>.
var sections = []string{"cache", "limits", "batch"}

// flagKeys maps flags whose names differ from their config keys.
var flagKeys = map[string]string{
	"timeout":     "limits.timeout",
	"concurrency": "batch.concurrency",
	"max-depth":   "limits.max_nesting_depth",
	"cache-size":  "cache.size",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// configExistsIn returns the config file in dir, or "".
func configExistsIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigFile finds the config file to use.
// Priority: explicit path > leapdplyr.yaml/yml in the working directory or
// its nearest ancestor.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for range maxUpwardSearchLevels {
		if found := configExistsIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// envKey transforms LEAPDPLYR_CACHE_SIZE into cache.size and
// LEAPDPLYR_DIALECT into dialect.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// flagKey maps a flag to its config key and value. Flags the user did not
// set are skipped so they never shadow file or environment values.
func flagKey(flags *pflag.FlagSet, f *pflag.Flag) (string, interface{}) {
	if !f.Changed {
		return "", nil
	}
	if f.Name == "no-cache" {
		disabled, _ := flags.GetBool("no-cache")
		return "cache.enabled", !disabled
	}
	if key, ok := flagKeys[f.Name]; ok {
		return key, posflag.FlagVal(flags, f)
	}
	// Transform kebab-case to snake_case for config keys
	return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load defaults: %w", ErrInvalidConfig, err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: error reading config file %s: %w", ErrInvalidConfig, configFileUsed, err)
		}
	}

	// 3. Load environment variables (LEAPDPLYR_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load env vars: %w", ErrInvalidConfig, err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return flagKey(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("%w: failed to load flags: %w", ErrInvalidConfig, err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: unable to decode config: %w", ErrInvalidConfig, err)
	}
	cfg.ConfigFile = configFileUsed
	cfg.Dialect = strings.ToLower(strings.TrimSpace(cfg.Dialect))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration, or the
// defaults when nothing was loaded.
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		return Default()
	}
	return currentConfig
}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored in ctx, falling back to
// GetCurrentConfig.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return GetCurrentConfig()
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// LogLevel returns the level implied by the debug and verbose settings.
func (c *Config) LogLevel() slog.Level {
	switch {
	case c.Debug:
		return slog.LevelDebug
	case c.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

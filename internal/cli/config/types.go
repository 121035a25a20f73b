// Package config provides configuration management for the leapdplyr CLI.
//
// Values are layered from built-in defaults, a leapdplyr.yaml file,
// LEAPDPLYR_* environment variables and finally command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Dialect string       `koanf:"dialect"`
	Output  string       `koanf:"output"`
	Format  string       `koanf:"format"`
	Verbose bool         `koanf:"verbose"`
	Debug   bool         `koanf:"debug"`
	Lang    string       `koanf:"lang"`
	Table   string       `koanf:"table"`
	Cache   CacheConfig  `koanf:"cache"`
	Limits  LimitsConfig `koanf:"limits"`
	Batch   BatchConfig  `koanf:"batch"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `koanf:"-"`
}

// CacheConfig controls the transpile result cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Size    int           `koanf:"size"`
	TTL     time.Duration `koanf:"ttl"`
}

// LimitsConfig bounds accepted input and run time.
type LimitsConfig struct {
	MaxInputLength   int           `koanf:"max_input_length"`
	MaxNestingDepth  int           `koanf:"max_nesting_depth"`
	MaxFunctionCalls int           `koanf:"max_function_calls"`
	Timeout          time.Duration `koanf:"timeout"`
}

// BatchConfig controls the batch command.
type BatchConfig struct {
	Concurrency int `koanf:"concurrency"`
}

// Default configuration values.
const (
	DefaultDialect          = "postgresql"
	DefaultOutput           = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultFormat           = "default"
	DefaultLang             = "en"
	DefaultTable            = "data"
	DefaultCacheSize        = 100
	DefaultCacheTTL         = 5 * time.Minute
	DefaultMaxInputLength   = 1 << 20
	DefaultMaxNestingDepth  = 50
	DefaultMaxFunctionCalls = 1000
	DefaultTimeout          = 30 * time.Second
	DefaultBatchConcurrency = 4
)

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Dialect: DefaultDialect,
		Output:  DefaultOutput,
		Format:  DefaultFormat,
		Lang:    DefaultLang,
		Table:   DefaultTable,
		Cache: CacheConfig{
			Enabled: true,
			Size:    DefaultCacheSize,
			TTL:     DefaultCacheTTL,
		},
		Limits: LimitsConfig{
			MaxInputLength:   DefaultMaxInputLength,
			MaxNestingDepth:  DefaultMaxNestingDepth,
			MaxFunctionCalls: DefaultMaxFunctionCalls,
			Timeout:          DefaultTimeout,
		},
		Batch: BatchConfig{Concurrency: DefaultBatchConcurrency},
	}
}

func defaultMap() map[string]interface{} {
	return map[string]interface{}{
		"dialect":                   DefaultDialect,
		"output":                    DefaultOutput,
		"format":                    DefaultFormat,
		"verbose":                   false,
		"debug":                     false,
		"lang":                      DefaultLang,
		"table":                     DefaultTable,
		"cache.enabled":             true,
		"cache.size":                DefaultCacheSize,
		"cache.ttl":                 DefaultCacheTTL.String(),
		"limits.max_input_length":   DefaultMaxInputLength,
		"limits.max_nesting_depth":  DefaultMaxNestingDepth,
		"limits.max_function_calls": DefaultMaxFunctionCalls,
		"limits.timeout":            DefaultTimeout.String(),
		"batch.concurrency":         DefaultBatchConcurrency,
	}
}

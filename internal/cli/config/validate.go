package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/leapstack-labs/leapdplyr/pkg/format"
)

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Langs lists the accepted values of the lang setting.
var Langs = []string{"en", "ko"}

// Validate checks if the configuration is valid. Dialect names are checked
// against the registry, so dialect packages must be linked in.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, dialect.ErrDialectRequired)
	}
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(OutputModes, c.Output) {
		return fmt.Errorf("%w: unknown output %q (valid: %s)", ErrInvalidConfig, c.Output, strings.Join(OutputModes, ", "))
	}
	if _, err := format.ParseStyle(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(Langs, c.Lang) {
		return fmt.Errorf("%w: unknown lang %q (valid: %s)", ErrInvalidConfig, c.Lang, strings.Join(Langs, ", "))
	}

	positive := []struct {
		key   string
		value int64
	}{
		{"cache.size", int64(c.Cache.Size)},
		{"limits.max_input_length", int64(c.Limits.MaxInputLength)},
		{"limits.max_nesting_depth", int64(c.Limits.MaxNestingDepth)},
		{"limits.max_function_calls", int64(c.Limits.MaxFunctionCalls)},
		{"limits.timeout", int64(c.Limits.Timeout)},
		{"batch.concurrency", int64(c.Batch.Concurrency)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, p.key)
		}
	}
	return nil
}

// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

// Config is the PostgreSQL dialect configuration.
// This is pure data; the Builder reads it and wires the capabilities.
var Config = &dialect.Config{
	Name:        "postgresql",
	Aliases:     []string{"postgres", "pg"},
	Description: "PostgreSQL",
	Identifiers: dialect.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	Concat: dialect.ConcatOperator,
	// PostgreSQL has no SELECT * EXCLUDE, so rename() is unsupported.

	Aggregates: map[string]string{
		"sd":  "STDDEV_SAMP",
		"var": "VAR_SAMP",
	},
	ReservedWords: append([]string{
		"analyse", "analyze", "array", "asymmetric", "authorization", "binary",
		"collate", "concurrently", "current_catalog", "current_role",
		"current_schema", "deferrable", "do", "freeze", "ilike", "initially",
		"isnull", "lateral", "limit", "localtime", "localtimestamp", "notnull",
		"offset", "only", "overlaps", "placing", "returning", "session_user",
		"similar", "some", "symmetric", "tablesample", "variadic", "verbose",
	}, dialect.ANSIReservedWords...),
}

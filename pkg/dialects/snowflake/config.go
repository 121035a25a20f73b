// Package snowflake provides the Snowflake SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package snowflake

import (
	"slices"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
)

// Config is the Snowflake dialect configuration.
var Config = &dialect.Config{
	Name:        "snowflake",
	Description: "Snowflake",
	Identifiers: dialect.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	Concat: dialect.ConcatOperator,

	// Quoted identifiers keep their case in Snowflake.
	CaseSensitive: true,
	StarExclude:   "EXCLUDE",

	Aggregates: map[string]string{
		"median": "MEDIAN",
		"mode":   "MODE",
		"sd":     "STDDEV",
		"var":    "VARIANCE",
	},
	ReservedWords: slices.Concat(reservedWords, dialect.ANSIReservedWords),
}

// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

// Config is the DuckDB dialect configuration.
var Config = &dialect.Config{
	Name:        "duckdb",
	Description: "DuckDB",
	Identifiers: dialect.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	Concat:        dialect.ConcatOperator,
	StarExclude:   "EXCLUDE",
	SemiAntiJoins: true,

	Aggregates: map[string]string{
		"median":   "MEDIAN",
		"mode":     "MODE",
		"sd":       "STDDEV_SAMP",
		"var":      "VAR_SAMP",
		"quantile": "QUANTILE_CONT",
	},
	ReservedWords: append([]string{
		"analyse", "analyze", "array", "asymmetric", "collate", "describe",
		"do", "ilike", "lateral", "limit", "offset", "only", "pivot", "placing",
		"qualify", "returning", "show", "similar", "some", "summarize",
		"symmetric", "unpivot", "variadic",
	}, dialect.ANSIReservedWords...),
}

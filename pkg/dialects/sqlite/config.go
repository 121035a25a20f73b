// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

// Config is the SQLite dialect configuration.
var Config = &dialect.Config{
	Name:        "sqlite",
	Aliases:     []string{"sqlite3"},
	Description: "SQLite 3.35+ (built-in math functions)",
	Identifiers: dialect.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	Concat: dialect.ConcatOperator,

	Aggregates: map[string]string{
		"paste_agg": "GROUP_CONCAT",
	},
	ReservedWords: append([]string{
		"abort", "autoincrement", "glob", "index", "isnull", "limit", "notnull",
		"offset", "pragma", "raise", "regexp", "vacuum",
	}, dialect.ANSIReservedWords...),
}

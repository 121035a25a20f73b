// Package mysql provides the MySQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package mysql

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

// Config is the MySQL dialect configuration.
var Config = &dialect.Config{
	Name:        "mysql",
	Aliases:     []string{"mariadb"},
	Description: "MySQL and MariaDB",
	Identifiers: dialect.IdentifierConfig{
		Quote:    "`",
		QuoteEnd: "`",
		Escape:   "``",
	},
	// || is logical OR unless PIPES_AS_CONCAT is set.
	Concat:     dialect.ConcatFunction,
	NoFullJoin: true,

	Aggregates: map[string]string{
		"sd":  "STDDEV_SAMP",
		"var": "VAR_SAMP",
	},
	ReservedWords: append([]string{
		"accessible", "analyze", "before", "change", "condition", "database",
		"databases", "delayed", "describe", "div", "dual", "explain", "force",
		"ignore", "index", "interval", "key", "keys", "kill", "limit", "lines",
		"load", "lock", "long", "match", "mod", "modifies", "option", "range",
		"read", "regexp", "release", "rename", "repeat", "replace", "require",
		"rlike", "schema", "separator", "show", "signal", "spatial", "sql",
		"ssl", "starting", "straight_join", "trigger", "undo", "unlock",
		"unsigned", "update", "usage", "use", "values", "write", "xor",
	}, dialect.ANSIReservedWords...),
}

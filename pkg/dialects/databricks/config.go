// Package databricks provides the Databricks SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package databricks

import (
	"slices"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
)

// Config is the Databricks dialect configuration.
var Config = &dialect.Config{
	Name:        "databricks",
	Aliases:     []string{"spark"},
	Description: "Databricks SQL and Spark SQL",
	Identifiers: dialect.IdentifierConfig{
		Quote:    "`",
		QuoteEnd: "`",
		Escape:   "``",
	},
	Concat:        dialect.ConcatOperator,
	StarExclude:   "EXCEPT",
	SemiAntiJoins: true,

	Aggregates: map[string]string{
		"median": "MEDIAN",
		"mode":   "MODE",
		"sd":     "STDDEV_SAMP",
		"var":    "VAR_SAMP",
	},
	ReservedWords: slices.Concat(reservedWords, dialect.ANSIReservedWords),
}

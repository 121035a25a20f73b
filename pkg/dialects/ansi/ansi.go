// Package ansi provides the base ANSI SQL dialect.
//
// It uses double-quoted identifiers, || concatenation and the common
// function translations, with no vendor extensions. Other dialects are
// described relative to it.
package ansi

import "github.com/leapstack-labs/leapdplyr/pkg/dialect"

func init() {
	dialect.Register(ANSI)
}

// Config is the ANSI dialect configuration.
var Config = &dialect.Config{
	Name:        "ansi",
	Aliases:     []string{"sql", "standard"},
	Description: "ANSI SQL with no vendor extensions",
	Identifiers: dialect.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},
	Concat:        dialect.ConcatOperator,
	ReservedWords: dialect.ANSIReservedWords,
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).Build()

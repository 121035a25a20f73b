package dialect

// IdentifierConfig describes how a dialect quotes identifiers.
type IdentifierConfig struct {
	Quote    string // Quote character: ", `
	QuoteEnd string // End quote character (usually same as Quote)
	Escape   string // Escape sequence for QuoteEnd inside a name: "", ``
}

// ConcatStyle selects how string concatenation is spelled.
type ConcatStyle int

// Concatenation styles.
const (
	ConcatOperator ConcatStyle = iota // a || b
	ConcatFunction                    // CONCAT(a, b)
)

// Config is the pure data description of a dialect.
// The Builder reads it and wires the capabilities.
type Config struct {
	Name        string
	Aliases     []string // Alternate registry names: "postgres", "pg"
	Description string
	Identifiers IdentifierConfig
	Concat      ConcatStyle

	// CaseSensitive reports whether quoted identifiers are compared case-sensitively.
	CaseSensitive bool

	// StarExclude is the keyword used for "all columns except ..." projections
	// (EXCLUDE, EXCEPT). Empty means the dialect cannot express them.
	StarExclude string

	// SemiAntiJoins reports native SEMI JOIN / ANTI JOIN syntax. Without it
	// semi_join and anti_join render as [NOT] EXISTS filters.
	SemiAntiJoins bool

	// NoFullJoin marks dialects without FULL [OUTER] JOIN.
	NoFullJoin bool

	// Aggregates extends the standard DSL aggregate mapping (lowercase DSL name -> SQL name).
	Aggregates map[string]string

	// Windows extends the standard set of window function names.
	Windows []string

	// ReservedWords are identifiers that need quoting to be used as column names.
	ReservedWords []string
}

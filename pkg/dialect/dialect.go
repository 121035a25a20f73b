// Package dialect describes how a target database spells the SQL the
// generator emits: identifier and string quoting, concatenation, LIMIT,
// aggregate names, star-exclusion projections, and R function translation.
//
// Concrete dialects live under pkg/dialects and register themselves in
// their init functions:
//
//	import _ "github.com/leapstack-labs/leapdplyr/pkg/dialects/postgres"
//
//	d, ok := dialect.Get("postgresql")
package dialect

import (
	"sort"
	"strconv"
	"strings"
)

// Dialect is the capability set the SQL generator needs from a target
// database. Every method is a pure function of its arguments.
type Dialect interface {
	// Name returns the canonical registry name.
	Name() string
	// QuoteIdentifier quotes a column or table name.
	QuoteIdentifier(name string) string
	// QuoteString quotes a string literal, doubling embedded quotes.
	QuoteString(value string) string
	// LimitClause returns the row-limit clause for n rows.
	LimitClause(n int) string
	// StringConcat concatenates two rendered SQL expressions.
	StringConcat(left, right string) string
	// AggregateFunction maps a DSL aggregate name to SQL. Matching is
	// case-insensitive; unknown names are upper-cased.
	AggregateFunction(name string) string
	// IsCaseSensitive reports whether quoted identifiers are case-sensitive.
	IsCaseSensitive() bool
	// SelectStarExclude renders "all columns except excluded". The boolean
	// is false when the dialect cannot express it.
	SelectStarExclude(excluded []string) (string, bool)
	// TranslateFunction renders a known R function over rendered arguments.
	// The boolean is false when the function has no translation.
	TranslateFunction(name string, args []string) (string, bool)
	// IsAggregate reports whether name is a known DSL aggregate.
	IsAggregate(name string) bool
	// IsWindow reports whether name is a window function.
	IsWindow(name string) bool
}

// FunctionRenderer renders a function call from already rendered arguments.
type FunctionRenderer func(d Dialect, args []string) (string, bool)

// standardAggregates is the DSL aggregate mapping shared by every dialect.
var standardAggregates = map[string]string{
	"mean":  "AVG",
	"avg":   "AVG",
	"sum":   "SUM",
	"count": "COUNT",
	"min":   "MIN",
	"max":   "MAX",
	"n":     "COUNT(*)",
}

// standardWindows lists window functions every dialect supports.
var standardWindows = []string{
	"row_number", "rank", "min_rank", "dense_rank", "percent_rank", "cume_dist", "ntile",
	"lag", "lead", "first", "first_value", "last", "last_value", "nth", "nth_value",
}

// Standard is a Dialect assembled from a Config by the Builder.
type Standard struct {
	name          string
	aliases       []string
	description   string
	identifiers   IdentifierConfig
	concat        ConcatStyle
	caseSensitive bool
	starExclude   string
	semiAnti      bool
	noFullJoin    bool
	aggregates    map[string]string
	windows       map[string]struct{}
	functions     map[string]FunctionRenderer
	reserved      map[string]struct{}
}

var _ Dialect = (*Standard)(nil)

// Name implements Dialect.
func (d *Standard) Name() string { return d.name }

// Aliases returns the alternate registry names.
func (d *Standard) Aliases() []string { return d.aliases }

// Description returns a one-line description of the dialect.
func (d *Standard) Description() string { return d.description }

// Identifiers returns the identifier quoting configuration.
func (d *Standard) Identifiers() IdentifierConfig { return d.identifiers }

// QuoteIdentifier implements Dialect.
func (d *Standard) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.identifiers.QuoteEnd, d.identifiers.Escape)
	return d.identifiers.Quote + escaped + d.identifiers.QuoteEnd
}

// QuoteString implements Dialect.
func (d *Standard) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// LimitClause implements Dialect.
func (d *Standard) LimitClause(n int) string {
	return "LIMIT " + strconv.Itoa(n)
}

// StringConcat implements Dialect.
func (d *Standard) StringConcat(left, right string) string {
	if d.concat == ConcatFunction {
		return "CONCAT(" + left + ", " + right + ")"
	}
	return left + " || " + right
}

// AggregateFunction implements Dialect.
func (d *Standard) AggregateFunction(name string) string {
	if sql, ok := d.aggregates[strings.ToLower(name)]; ok {
		return sql
	}
	return strings.ToUpper(name)
}

// IsAggregate implements Dialect.
func (d *Standard) IsAggregate(name string) bool {
	_, ok := d.aggregates[strings.ToLower(name)]
	return ok
}

// IsWindow implements Dialect.
func (d *Standard) IsWindow(name string) bool {
	_, ok := d.windows[strings.ToLower(name)]
	return ok
}

// IsCaseSensitive implements Dialect.
func (d *Standard) IsCaseSensitive() bool { return d.caseSensitive }

// IsReserved reports whether name is a reserved word in this dialect.
func (d *Standard) IsReserved(name string) bool {
	_, ok := d.reserved[strings.ToLower(name)]
	return ok
}

// SupportsSemiAntiJoin reports native SEMI JOIN / ANTI JOIN syntax.
func (d *Standard) SupportsSemiAntiJoin() bool { return d.semiAnti }

// SupportsFullJoin reports whether FULL JOIN is available.
func (d *Standard) SupportsFullJoin() bool { return !d.noFullJoin }

// SupportsStarExclude reports whether SelectStarExclude can succeed.
func (d *Standard) SupportsStarExclude() bool { return d.starExclude != "" }

// SelectStarExclude implements Dialect.
func (d *Standard) SelectStarExclude(excluded []string) (string, bool) {
	if d.starExclude == "" {
		return "", false
	}
	if len(excluded) == 0 {
		return "*", true
	}
	quoted := make([]string, len(excluded))
	for i, name := range excluded {
		quoted[i] = d.QuoteIdentifier(name)
	}
	return "* " + d.starExclude + " (" + strings.Join(quoted, ", ") + ")", true
}

// TranslateFunction implements Dialect. Dialect overrides win over the
// common translation table.
func (d *Standard) TranslateFunction(name string, args []string) (string, bool) {
	lower := strings.ToLower(name)
	if render, ok := d.functions[lower]; ok {
		return render(d, args)
	}
	if render, ok := commonFunctions[lower]; ok {
		return render(d, args)
	}
	return "", false
}

// Functions returns the sorted names of every function the dialect translates.
func (d *Standard) Functions() []string {
	seen := make(map[string]struct{}, len(commonFunctions)+len(d.functions))
	names := make([]string, 0, len(commonFunctions)+len(d.functions))
	for _, m := range []map[string]FunctionRenderer{commonFunctions, d.functions} {
		for name := range m {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Standard
}

// NewDialect creates a new dialect builder with the given name and
// ANSI defaults: double-quoted identifiers and || concatenation.
func NewDialect(name string) *Builder {
	d := &Standard{
		name: name,
		identifiers: IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		aggregates: make(map[string]string, len(standardAggregates)),
		windows:    make(map[string]struct{}, len(standardWindows)),
		functions:  make(map[string]FunctionRenderer),
		reserved:   make(map[string]struct{}),
	}
	for k, v := range standardAggregates {
		d.aggregates[k] = v
	}
	for _, w := range standardWindows {
		d.windows[w] = struct{}{}
	}
	return &Builder{dialect: d}
}

// New creates a dialect builder from a Config.
func New(cfg *Config) *Builder {
	b := NewDialect(cfg.Name).
		Aliases(cfg.Aliases...).
		Description(cfg.Description).
		Concat(cfg.Concat).
		CaseSensitive(cfg.CaseSensitive).
		StarExclude(cfg.StarExclude).
		SemiAntiJoins(cfg.SemiAntiJoins).
		FullJoin(!cfg.NoFullJoin).
		Windows(cfg.Windows...).
		ReservedWords(cfg.ReservedWords...)
	if cfg.Identifiers.Quote != "" {
		b.Identifiers(cfg.Identifiers.Quote, cfg.Identifiers.QuoteEnd, cfg.Identifiers.Escape)
	}
	for name, sql := range cfg.Aggregates {
		b.Aggregate(name, sql)
	}
	return b
}

// Identifiers configures identifier quoting.
func (b *Builder) Identifiers(quote, quoteEnd, escape string) *Builder {
	b.dialect.identifiers = IdentifierConfig{Quote: quote, QuoteEnd: quoteEnd, Escape: escape}
	return b
}

// Aliases adds alternate registry names.
func (b *Builder) Aliases(names ...string) *Builder {
	b.dialect.aliases = append(b.dialect.aliases, names...)
	return b
}

// Description sets the one-line description.
func (b *Builder) Description(s string) *Builder {
	b.dialect.description = s
	return b
}

// Concat sets the string concatenation style.
func (b *Builder) Concat(style ConcatStyle) *Builder {
	b.dialect.concat = style
	return b
}

// CaseSensitive sets identifier case sensitivity.
func (b *Builder) CaseSensitive(v bool) *Builder {
	b.dialect.caseSensitive = v
	return b
}

// StarExclude sets the keyword for star-exclusion projections.
func (b *Builder) StarExclude(keyword string) *Builder {
	b.dialect.starExclude = keyword
	return b
}

// SemiAntiJoins enables native SEMI JOIN / ANTI JOIN syntax.
func (b *Builder) SemiAntiJoins(v bool) *Builder {
	b.dialect.semiAnti = v
	return b
}

// FullJoin sets whether FULL JOIN is available.
func (b *Builder) FullJoin(v bool) *Builder {
	b.dialect.noFullJoin = !v
	return b
}

// Aggregate maps a DSL aggregate name to its SQL spelling.
func (b *Builder) Aggregate(name, sql string) *Builder {
	b.dialect.aggregates[strings.ToLower(name)] = sql
	return b
}

// Windows adds window function names.
func (b *Builder) Windows(names ...string) *Builder {
	for _, w := range names {
		b.dialect.windows[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// ReservedWords adds reserved words.
func (b *Builder) ReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reserved[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Function overrides the translation of one R function.
func (b *Builder) Function(name string, render FunctionRenderer) *Builder {
	b.dialect.functions[strings.ToLower(name)] = render
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Standard {
	return b.dialect
}

// Package sqlgen renders a parsed dplyr pipeline as SQL for one dialect.
//
// Generation is a left fold over the pipeline's operations into a query
// accumulator. Most verbs fill in one clause; when a verb needs a column
// computed earlier at the same SELECT level (or a window function would
// see the wrong rows), the query built so far is wrapped as a derived table
// and generation continues one level up:
//
//	SELECT *, ("doubled" * 2) AS "quadrupled"
//	FROM (
//	SELECT *, ("value" * 2) AS "doubled"
//	FROM "data"
//	) AS subquery
//
// Some verbs depend on the dialect. semi_join and anti_join render as
// SEMI JOIN / ANTI JOIN where the dialect has them (duckdb, databricks) and
// as WHERE [NOT] EXISTS (SELECT 1 FROM ...) filters everywhere else.
// full_join fails with UnsupportedOperation on dialects without FULL JOIN.
package sqlgen

import (
	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
)

// DefaultTable is the FROM table of pipelines that do not name a source.
const DefaultTable = "data"

// DefaultMaxDepth bounds expression nesting.
const DefaultMaxDepth = 100

// Generator renders ASTs for a single dialect. A Generator holds no
// per-call state and is safe for concurrent use.
type Generator struct {
	dialect      dialect.Dialect
	defaultTable string
	limit        int
	maxDepth     int
}

// Option configures a Generator.
type Option func(*Generator)

// WithDefaultTable sets the FROM table used when the pipeline has no source.
func WithDefaultTable(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.defaultTable = name
		}
	}
}

// WithLimit appends the dialect's LIMIT clause to the outermost query.
// Zero disables it.
func WithLimit(n int) Option {
	return func(g *Generator) {
		g.limit = n
	}
}

// WithMaxDepth bounds the nesting depth of any single expression.
func WithMaxDepth(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxDepth = n
		}
	}
}

// New creates a Generator for d.
func New(d dialect.Dialect, opts ...Option) *Generator {
	g := &Generator{
		dialect:      d,
		defaultTable: DefaultTable,
		maxDepth:     DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() dialect.Dialect { return g.dialect }

// Generate converts an AST to SQL.
func (g *Generator) Generate(root ast.Root) (string, error) {
	var (
		q   *query
		err error
	)
	switch n := root.(type) {
	case *ast.DataSource:
		q = g.newQuery(n.Name)
	case *ast.Pipeline:
		q, err = g.pipeline(n)
	case nil:
		return "", invalidAst("nil AST")
	default:
		return "", invalidAst("unknown root node")
	}
	if err != nil {
		return "", err
	}

	sql := q.String()
	if g.limit > 0 {
		sql += "\n" + g.dialect.LimitClause(g.limit)
	}
	return sql, nil
}

func (g *Generator) newQuery(table string) *query {
	if table == "" {
		table = g.defaultTable
	}
	quoted := g.dialect.QuoteIdentifier(table)
	return newQuery(quoted, quoted)
}

func (g *Generator) pipeline(p *ast.Pipeline) (*query, error) {
	if len(p.Operations) == 0 {
		return nil, invalidAst("Empty pipeline: at least one operation is required")
	}

	q := g.newQuery(p.Source)
	for _, op := range p.Operations {
		var err error
		if q, err = g.operation(q, op); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (g *Generator) operation(q *query, op ast.Operation) (*query, error) {
	switch o := op.(type) {
	case *ast.Select:
		return g.selectOp(q, o)
	case *ast.Filter:
		return g.filter(q, o)
	case *ast.Mutate:
		return g.mutate(q, o)
	case *ast.Rename:
		return g.rename(q, o)
	case *ast.Arrange:
		return g.arrange(q, o)
	case *ast.GroupBy:
		return g.groupBy(q, o)
	case *ast.Summarise:
		return g.summarise(q, o)
	case *ast.Join:
		return g.join(q, o)
	case nil:
		return nil, invalidAst("nil operation")
	default:
		return nil, invalidAst("unknown operation " + op.Verb())
	}
}

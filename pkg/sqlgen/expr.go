package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdplyr/pkg/ast"
)

// render converts a top-level expression, enforcing the depth limit.
func (g *Generator) render(e ast.Expr) (string, error) {
	if depth := ast.Depth(e); depth > g.maxDepth {
		return "", &GenerationError{
			Kind:   MaxNestingDepthExceeded,
			Reason: fmt.Sprintf("expression nesting depth %d exceeds the limit of %d", depth, g.maxDepth),
		}
	}
	return g.expr(e)
}

// expr converts an expression to SQL. Binary expressions are always
// parenthesized so the SQL precedence matches the parsed tree.
func (g *Generator) expr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.Identifier:
		return g.dialect.QuoteIdentifier(n.Name), nil
	case *ast.Literal:
		return g.literal(n), nil
	case *ast.Binary:
		left, err := g.expr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := g.expr(n.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " " + n.Op.SQL() + " " + right + ")", nil
	case *ast.Function:
		return g.function(n)
	case nil:
		return "", invalidAst("missing expression")
	default:
		return "", invalidAst(fmt.Sprintf("unknown expression %T", e))
	}
}

func (g *Generator) literal(l *ast.Literal) string {
	switch l.Kind {
	case ast.StringLit:
		return g.dialect.QuoteString(l.Str)
	case ast.NumberLit:
		return strconv.FormatFloat(l.Num, 'f', -1, 64)
	case ast.BoolLit:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return "NULL"
	}
}

// function renders a call. Dialect translations come first, then known
// aggregates; anything else is upper-cased and passed through.
func (g *Generator) function(fn *ast.Function) (string, error) {
	args := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		sql, err := g.expr(arg)
		if err != nil {
			return "", err
		}
		args[i] = sql
	}

	d := g.dialect
	if sql, ok := d.TranslateFunction(fn.Name, args); ok {
		return sql, nil
	}

	name := strings.ToLower(fn.Name)
	if d.IsAggregate(name) {
		if name == "n" {
			if len(args) > 0 {
				return "", &GenerationError{
					Kind:      UnsupportedAggregateFunction,
					Operation: fn.Name,
					Reason:    "n() takes no arguments",
				}
			}
			return d.AggregateFunction(name), nil
		}
		return d.AggregateFunction(name) + "(" + strings.Join(args, ", ") + ")", nil
	}

	if strings.HasPrefix(name, "as.") {
		return "", &GenerationError{
			Kind:      InvalidTypeConversion,
			Operation: fn.Name,
			Reason:    fmt.Sprintf("%s() with %d argument(s) has no SQL equivalent", fn.Name, len(args)),
		}
	}

	return strings.ToUpper(fn.Name) + "(" + strings.Join(args, ", ") + ")", nil
}

// firstAggregate returns the first aggregate call in e, or nil.
func (g *Generator) firstAggregate(e ast.Expr) *ast.Function {
	for _, fn := range ast.CollectFunctions(e) {
		if g.dialect.IsAggregate(fn.Name) {
			return fn
		}
	}
	return nil
}

// firstWindow returns the first window call in e, or nil.
func (g *Generator) firstWindow(e ast.Expr) *ast.Function {
	for _, fn := range ast.CollectFunctions(e) {
		if g.dialect.IsWindow(fn.Name) {
			return fn
		}
	}
	return nil
}

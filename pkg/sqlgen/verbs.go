package sqlgen

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
)

func (g *Generator) quote(name string) string {
	return g.dialect.QuoteIdentifier(name)
}

// checkColumns rejects references to columns renamed away at this level.
func (g *Generator) checkColumns(q *query, verb string, names ...string) error {
	for _, name := range names {
		if renamed, ok := q.renamed[name]; ok {
			return invalidColumn(name, "%s() references %q, which was renamed to %q", verb, name, renamed)
		}
	}
	return nil
}

// selectOp replaces the projection. Columns computed at this level are
// inlined under their own name.
func (g *Generator) selectOp(q *query, s *ast.Select) (*query, error) {
	for _, col := range s.Columns {
		if _, bare := col.Expr.(*ast.Identifier); !bare && q.references(ast.Identifiers(col.Expr)) {
			q = q.wrap()
			break
		}
	}

	cols := make([]string, 0, len(s.Columns))
	computed := make(map[string]string, len(s.Columns))
	for _, col := range s.Columns {
		if err := g.checkColumns(q, "select", ast.Identifiers(col.Expr)...); err != nil {
			return nil, err
		}

		var sql, alias string
		if id, ok := col.Expr.(*ast.Identifier); ok {
			if expr, ok := q.computed[id.Name]; ok {
				sql, alias = expr, id.Name
			}
		}
		if sql == "" {
			var err error
			if sql, err = g.render(col.Expr); err != nil {
				return nil, err
			}
		}
		if col.Alias != "" {
			alias = col.Alias
		}
		if alias != "" {
			computed[alias] = sql
			sql += " AS " + g.quote(alias)
		}
		cols = append(cols, sql)
	}

	q.selectColumns = cols
	q.computed = computed
	return q, nil
}

// filter adds a WHERE fragment. Conditions on columns computed at this
// level, or on a level already aggregated or windowed, filter a subquery.
func (g *Generator) filter(q *query, f *ast.Filter) (*query, error) {
	if fn := g.firstWindow(f.Condition); fn != nil {
		return nil, &GenerationError{
			Kind:      ComplexExpression,
			Operation: fn.Name,
			Reason:    fmt.Sprintf("window function %s() cannot be used inside filter(); compute it with mutate() first", fn.Name),
		}
	}
	if fn := g.firstAggregate(f.Condition); fn != nil {
		return nil, &GenerationError{
			Kind:      ComplexExpression,
			Operation: fn.Name,
			Reason:    fmt.Sprintf("aggregate function %s() cannot be used inside filter(); compute it with summarise() first", fn.Name),
		}
	}

	refs := ast.Identifiers(f.Condition)
	if err := g.checkColumns(q, "filter", refs...); err != nil {
		return nil, err
	}
	if q.aggregated || q.windowed || q.references(refs) {
		q = q.wrap()
	}

	cond, err := g.render(f.Condition)
	if err != nil {
		return nil, err
	}
	q.addWhere(cond)
	return q, nil
}

// mutate appends computed columns after the implicit "*". Assignments that
// depend on columns computed at this level start a new level; consecutive
// independent assignments share it.
func (g *Generator) mutate(q *query, m *ast.Mutate) (*query, error) {
	for _, a := range m.Assignments {
		refs := ast.Identifiers(a.Expr)
		if err := g.checkColumns(q, "mutate", refs...); err != nil {
			return nil, err
		}

		window := g.firstWindow(a.Expr) != nil
		if q.aggregated || q.references(refs) || (window && q.hasClauses()) {
			q = q.wrap()
		}

		sql, err := g.render(a.Expr)
		if err != nil {
			return nil, err
		}

		q.ensureStar()
		q.selectColumns = append(q.selectColumns, sql+" AS "+g.quote(a.Column))
		q.computed[a.Column] = sql
		delete(q.renamed, a.Column)
		if window {
			q.windowed = true
		}
	}
	return q, nil
}

// rename swaps the implicit "*" for a star-exclusion projection and
// re-adds each old column under its new name.
func (g *Generator) rename(q *query, r *ast.Rename) (*query, error) {
	if len(r.Renames) == 0 {
		return nil, invalidAst("rename() requires at least one mapping")
	}

	excluded := make([]string, len(r.Renames))
	for i, spec := range r.Renames {
		excluded[i] = spec.OldName
	}
	if err := g.checkColumns(q, "rename", excluded...); err != nil {
		return nil, err
	}
	if q.aggregated || q.references(excluded) {
		q = q.wrap()
	}

	starExclude, ok := g.dialect.SelectStarExclude(excluded)
	if !ok {
		return nil, &GenerationError{
			Kind:      UnsupportedOperation,
			Operation: "rename",
			Dialect:   g.dialect.Name(),
		}
	}

	if len(q.selectColumns) == 0 {
		q.selectColumns = append(q.selectColumns, starExclude)
	} else {
		replaced := false
		for i, col := range q.selectColumns {
			if col == "*" {
				q.selectColumns[i] = starExclude
				replaced = true
			}
		}
		if !replaced {
			return nil, invalidAst("rename() currently requires an implicit '*' projection (no prior select())")
		}
	}

	for _, spec := range r.Renames {
		old := g.quote(spec.OldName)
		q.selectColumns = append(q.selectColumns, old+" AS "+g.quote(spec.NewName))
		q.computed[spec.NewName] = old
		q.renamed[spec.OldName] = spec.NewName
		delete(q.renamed, spec.NewName)
	}
	return q, nil
}

// arrange replaces the ordering.
func (g *Generator) arrange(q *query, a *ast.Arrange) (*query, error) {
	items := make([]string, len(a.Columns))
	for i, col := range a.Columns {
		if err := g.checkColumns(q, "arrange", col.Column); err != nil {
			return nil, err
		}
		items[i] = g.quote(col.Column) + " " + col.Direction.String()
	}
	q.orderBy = strings.Join(items, ", ")
	return q, nil
}

// groupBy replaces the grouping. Grouping by a computed column, or
// regrouping summarised output, groups a subquery.
func (g *Generator) groupBy(q *query, gb *ast.GroupBy) (*query, error) {
	if err := g.checkColumns(q, "group_by", gb.Columns...); err != nil {
		return nil, err
	}
	if q.aggregated || q.references(gb.Columns) {
		q = q.wrap()
	}

	cols := make([]string, len(gb.Columns))
	for i, col := range gb.Columns {
		cols[i] = g.quote(col)
	}
	q.groupBy = cols
	return q, nil
}

// summarise replaces the projection with aggregation expressions.
func (g *Generator) summarise(q *query, s *ast.Summarise) (*query, error) {
	cols := make([]string, 0, len(s.Aggregations))
	for _, agg := range s.Aggregations {
		if agg.Column != "" {
			cols = append(cols, agg.Column)
		}
	}
	if err := g.checkColumns(q, "summarise", cols...); err != nil {
		return nil, err
	}
	if q.aggregated || q.references(cols) {
		q = q.wrap()
	}

	selectCols := make([]string, 0, len(s.Aggregations))
	computed := make(map[string]string, len(s.Aggregations))
	for _, agg := range s.Aggregations {
		sql, err := g.aggregation(agg)
		if err != nil {
			return nil, err
		}
		if agg.Alias != "" {
			computed[agg.Alias] = sql
			sql += " AS " + g.quote(agg.Alias)
		}
		selectCols = append(selectCols, sql)
	}

	if len(selectCols) == 0 {
		if len(q.groupBy) == 0 {
			return nil, &GenerationError{
				Kind:      EmptyQuery,
				Operation: "summarise",
				Reason:    "summarise() without aggregations or grouping selects nothing",
			}
		}
		selectCols = append(selectCols, q.groupBy...)
	}

	q.selectColumns = selectCols
	q.computed = computed
	q.renamed = make(map[string]string)
	q.windowed = false
	q.aggregated = true
	return q, nil
}

func (g *Generator) aggregation(agg ast.Aggregation) (string, error) {
	name := strings.ToLower(agg.Function)
	d := g.dialect

	if name == "n" {
		if agg.Column != "" {
			return "", &GenerationError{
				Kind:      UnsupportedAggregateFunction,
				Operation: agg.Function,
				Reason:    "n() takes no arguments",
			}
		}
		return d.AggregateFunction(name), nil
	}
	if d.IsWindow(name) && !d.IsAggregate(name) {
		return "", &GenerationError{
			Kind:      UnsupportedAggregateFunction,
			Operation: agg.Function,
			Reason:    fmt.Sprintf("%s() is a window function, not an aggregate", agg.Function),
		}
	}
	if agg.Column == "" {
		return "", invalidColumn("", "%s() requires a column argument", agg.Function)
	}
	return d.AggregateFunction(name) + "(" + g.quote(agg.Column) + ")", nil
}

// join appends a join clause. Semi and anti joins fall back to [NOT] EXISTS
// filters on dialects without native syntax.
func (g *Generator) join(q *query, j *ast.Join) (*query, error) {
	spec := j.Spec
	if spec.Table == "" {
		return nil, invalidAst(j.Type.String() + "() requires a table name")
	}
	if j.Type == ast.FullJoin && !dialect.SupportsFullJoin(g.dialect) {
		return nil, &GenerationError{
			Kind:      UnsupportedOperation,
			Operation: j.Type.String(),
			Dialect:   g.dialect.Name(),
		}
	}

	byColumn := spec.ByColumn
	if id, ok := spec.On.(*ast.Identifier); ok && byColumn == "" {
		byColumn = id.Name
	}

	var refs []string
	switch {
	case byColumn != "":
		refs = []string{byColumn}
	case spec.On != nil:
		refs = ast.Identifiers(spec.On)
	default:
		return nil, invalidAst(j.Type.String() + "() requires a by column or condition")
	}
	if err := g.checkColumns(q, j.Type.String(), refs...); err != nil {
		return nil, err
	}
	if q.aggregated || q.references(refs) {
		q = q.wrap()
	}

	table := g.quote(spec.Table)
	var on string
	if byColumn != "" {
		col := g.quote(byColumn)
		on = q.qualifier + "." + col + " = " + table + "." + col
	} else {
		var err error
		if on, err = g.render(spec.On); err != nil {
			return nil, err
		}
	}

	if (j.Type == ast.SemiJoin || j.Type == ast.AntiJoin) && !dialect.SupportsSemiAntiJoin(g.dialect) {
		exists := "EXISTS (SELECT 1 FROM " + table + " WHERE " + on + ")"
		if j.Type == ast.AntiJoin {
			exists = "NOT " + exists
		}
		q.addWhere(exists)
		return q, nil
	}

	q.joins = append(q.joins, j.Type.SQL()+" "+table+" ON "+on)
	return q, nil
}

package sqlgen

import "strings"

// subqueryAlias names the derived table produced by a subquery wrap.
const subqueryAlias = "subquery"

// query accumulates the clauses of one SELECT level. Operations fold into
// it in pipeline order; a wrap closes the level and starts a new one that
// selects from it.
type query struct {
	from      string // rendered FROM target
	qualifier string // rendered name that qualifies columns of the FROM target

	selectColumns []string
	whereClauses  []string
	groupBy       []string
	orderBy       string
	joins         []string

	// computed maps columns defined at this level (mutate and summarise
	// aliases) to their rendered expression.
	computed map[string]string
	// windowed is set once a window function is computed at this level.
	windowed bool
	// aggregated is set once summarise ran at this level.
	aggregated bool
	// renamed maps old names renamed away at this level to their new name.
	renamed map[string]string
}

func newQuery(from, qualifier string) *query {
	return &query{
		from:      from,
		qualifier: qualifier,
		computed:  make(map[string]string),
		renamed:   make(map[string]string),
	}
}

// references reports whether any of names is computed at this level.
func (q *query) references(names []string) bool {
	for _, name := range names {
		if _, ok := q.computed[name]; ok {
			return true
		}
	}
	return false
}

// hasClauses reports whether the level filters, groups, orders, joins or
// computes anything, i.e. whether a window function added now would see
// a different row set than the one the pipeline describes.
func (q *query) hasClauses() bool {
	return len(q.whereClauses) > 0 || len(q.groupBy) > 0 || q.orderBy != "" ||
		len(q.joins) > 0 || len(q.computed) > 0
}

// ensureStar makes the implicit "all columns" projection explicit so that
// computed columns can be appended after it.
func (q *query) ensureStar() {
	if len(q.selectColumns) == 0 {
		q.selectColumns = append(q.selectColumns, "*")
	}
}

// addWhere appends a filter fragment. The first fragment is bare; later
// ones are conjoined.
func (q *query) addWhere(fragment string) {
	if len(q.whereClauses) == 0 {
		q.whereClauses = append(q.whereClauses, fragment)
		return
	}
	q.whereClauses = append(q.whereClauses, "AND ("+fragment+")")
}

// String assembles the level into SQL text.
func (q *query) String() string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if len(q.selectColumns) == 0 {
		sb.WriteByte('*')
	} else {
		sb.WriteString(strings.Join(q.selectColumns, ", "))
	}

	sb.WriteString("\nFROM ")
	sb.WriteString(q.from)

	for _, join := range q.joins {
		sb.WriteByte('\n')
		sb.WriteString(join)
	}

	if len(q.whereClauses) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(q.whereClauses, " "))
	}

	if len(q.groupBy) > 0 {
		sb.WriteString("\nGROUP BY ")
		sb.WriteString(strings.Join(q.groupBy, ", "))
	}

	if q.orderBy != "" {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(q.orderBy)
	}

	return sb.String()
}

// wrap closes q and returns a new level selecting from it. A grouping not
// yet consumed by summarise moves to the new level, and columns renamed
// away stay unavailable.
func (q *query) wrap() *query {
	var groupBy []string
	if !q.aggregated {
		groupBy, q.groupBy = q.groupBy, nil
	}

	outer := newQuery("(\n"+q.String()+"\n) AS "+subqueryAlias, subqueryAlias)
	outer.groupBy = groupBy
	for old, renamed := range q.renamed {
		outer.renamed[old] = renamed
	}
	return outer
}

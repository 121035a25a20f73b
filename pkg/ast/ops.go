package ast

import "github.com/leapstack-labs/leapdplyr/pkg/token"

// Operation is one verb of a pipeline.
type Operation interface {
	Node
	// Verb returns the DSL spelling of the operation.
	Verb() string
	opNode()
}

// ---------- Supporting Types ----------

// ColumnExpr is one item of a select list.
type ColumnExpr struct {
	Expr  Expr
	Alias string // empty when not aliased
}

// Assignment is "column = expr" inside mutate.
type Assignment struct {
	Column string
	Expr   Expr
}

// RenameSpec is "new = old" inside rename.
type RenameSpec struct {
	NewName string
	OldName string
}

// Direction is a sort direction.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderExpr is one arrange item.
type OrderExpr struct {
	Column    string
	Direction Direction
}

// Aggregation is one summarise item. An empty Column encodes an
// argument-less aggregate such as n().
type Aggregation struct {
	Function string
	Column   string
	Alias    string
}

// JoinType enumerates the join verbs.
type JoinType int

// Join types.
const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	SemiJoin
	AntiJoin
)

var joinKeywords = [...]string{
	InnerJoin: "INNER JOIN",
	LeftJoin:  "LEFT JOIN",
	RightJoin: "RIGHT JOIN",
	FullJoin:  "FULL JOIN",
	SemiJoin:  "SEMI JOIN",
	AntiJoin:  "ANTI JOIN",
}

var joinVerbs = [...]string{
	InnerJoin: "inner_join",
	LeftJoin:  "left_join",
	RightJoin: "right_join",
	FullJoin:  "full_join",
	SemiJoin:  "semi_join",
	AntiJoin:  "anti_join",
}

// SQL returns the SQL join keyword, e.g. "LEFT JOIN".
func (j JoinType) SQL() string { return joinKeywords[j] }

func (j JoinType) String() string { return joinVerbs[j] }

// JoinSpec describes the right-hand table and the join key. Exactly one of
// ByColumn and On is set.
type JoinSpec struct {
	Table    string
	ByColumn string
	On       Expr
}

// ---------- Operations ----------

// Select projects columns.
type Select struct {
	Columns  []ColumnExpr
	Location token.Position
}

// Filter restricts rows.
type Filter struct {
	Condition Expr
	Location  token.Position
}

// Mutate adds computed columns.
type Mutate struct {
	Assignments []Assignment
	Location    token.Position
}

// Rename renames columns.
type Rename struct {
	Renames  []RenameSpec
	Location token.Position
}

// Arrange orders rows.
type Arrange struct {
	Columns  []OrderExpr
	Location token.Position
}

// GroupBy groups rows by plain columns.
type GroupBy struct {
	Columns  []string
	Location token.Position
}

// Summarise replaces the projection with aggregates.
type Summarise struct {
	Aggregations []Aggregation
	Location     token.Position
}

// Join combines the pipeline with another table.
type Join struct {
	Type     JoinType
	Spec     JoinSpec
	Location token.Position
}

func (*Select) opNode()    {}
func (*Filter) opNode()    {}
func (*Mutate) opNode()    {}
func (*Rename) opNode()    {}
func (*Arrange) opNode()   {}
func (*GroupBy) opNode()   {}
func (*Summarise) opNode() {}
func (*Join) opNode()      {}

// Pos implements Node.
func (o *Select) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *Filter) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *Mutate) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *Rename) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *Arrange) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *GroupBy) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *Summarise) Pos() token.Position { return o.Location }

// Pos implements Node.
func (o *Join) Pos() token.Position { return o.Location }

// Verb implements Operation.
func (*Select) Verb() string { return "select" }

// Verb implements Operation.
func (*Filter) Verb() string { return "filter" }

// Verb implements Operation.
func (*Mutate) Verb() string { return "mutate" }

// Verb implements Operation.
func (*Rename) Verb() string { return "rename" }

// Verb implements Operation.
func (*Arrange) Verb() string { return "arrange" }

// Verb implements Operation.
func (*GroupBy) Verb() string { return "group_by" }

// Verb implements Operation.
func (*Summarise) Verb() string { return "summarise" }

// Verb implements Operation.
func (o *Join) Verb() string { return o.Type.String() }

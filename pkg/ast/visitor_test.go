package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifiers(t *testing.T) {
	// (a + b) * coalesce(a, c, 0)
	expr := &Binary{
		Left: &Binary{Left: &Identifier{Name: "a"}, Op: OpAdd, Right: &Identifier{Name: "b"}},
		Op:   OpMul,
		Right: &Function{Name: "coalesce", Args: []Expr{
			&Identifier{Name: "a"},
			&Identifier{Name: "c"},
			Number(0),
		}},
	}

	assert.Equal(t, []string{"a", "b", "c"}, Identifiers(expr))
	assert.Empty(t, Identifiers(String("a")))
}

func TestCollectFunctions(t *testing.T) {
	expr := &Function{Name: "round", Args: []Expr{
		&Function{Name: "abs", Args: []Expr{&Identifier{Name: "x"}}},
		Number(2),
	}}

	funcs := CollectFunctions(expr)
	if assert.Len(t, funcs, 2) {
		assert.Equal(t, "round", funcs[0].Name)
		assert.Equal(t, "abs", funcs[1].Name)
	}
}

func TestWalkPipeline(t *testing.T) {
	p := &Pipeline{Operations: []Operation{
		&Filter{Condition: &Binary{Left: &Identifier{Name: "age"}, Op: OpGt, Right: Number(18)}},
		&Select{Columns: []ColumnExpr{{Expr: &Identifier{Name: "name"}}}},
		&Join{Type: LeftJoin, Spec: JoinSpec{Table: "dept", On: &Identifier{Name: "dept_id"}}},
	}}

	var ops []string
	var ids []string
	Walk(p, func(n any) bool {
		switch v := n.(type) {
		case Operation:
			ops = append(ops, v.Verb())
		case *Identifier:
			ids = append(ids, v.Name)
		}
		return true
	})

	assert.Equal(t, []string{"filter", "select", "left_join"}, ops)
	assert.Equal(t, []string{"age", "name", "dept_id"}, ids)
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth(nil))
	assert.Equal(t, 1, Depth(&Identifier{Name: "x"}))
	assert.Equal(t, 3, Depth(&Binary{
		Left:  &Binary{Left: Number(1), Op: OpAdd, Right: Number(2)},
		Op:    OpMul,
		Right: Number(3),
	}))
	assert.Equal(t, 1, Depth(&Function{Name: "n"}))
	assert.Equal(t, 2, Depth(&Function{Name: "abs", Args: []Expr{&Identifier{Name: "x"}}}))
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "TRUE", Bool(true).String())
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, `"x"`, String("x").String())
}

func TestJoinTypeNames(t *testing.T) {
	assert.Equal(t, "SEMI JOIN", SemiJoin.SQL())
	assert.Equal(t, "full_join", FullJoin.String())
	assert.Equal(t, "full_join", (&Join{Type: FullJoin}).Verb())
}

package ast

import "strconv"

// Expr is a marker interface for expression nodes.
type Expr interface {
	exprNode()
}

// Identifier references a column by name.
type Identifier struct {
	Name string
}

// LiteralKind tags the value held by a Literal.
type LiteralKind int

// Literal kinds.
const (
	StringLit LiteralKind = iota
	NumberLit
	BoolLit
	NullLit
)

// Literal is a constant value.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
}

// String returns a string literal.
func String(s string) *Literal { return &Literal{Kind: StringLit, Str: s} }

// Number returns a numeric literal.
func Number(n float64) *Literal { return &Literal{Kind: NumberLit, Num: n} }

// Bool returns a boolean literal.
func Bool(b bool) *Literal { return &Literal{Kind: BoolLit, Bool: b} }

// Null returns the null literal.
func Null() *Literal { return &Literal{Kind: NullLit} }

// BinaryOp enumerates the twelve binary operators.
type BinaryOp int

// Binary operators.
const (
	OpEq BinaryOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var binaryOpSQL = [...]string{
	OpEq:  "=",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "AND",
	OpOr:  "OR",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

// SQL returns the SQL spelling of the operator.
func (o BinaryOp) SQL() string { return binaryOpSQL[o] }

func (o BinaryOp) String() string { return o.SQL() }

// IsComparison reports whether the operator compares its operands.
func (o BinaryOp) IsComparison() bool { return o <= OpGe }

// Binary is "left op right".
type Binary struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

// Function is a call "name(args...)".
type Function struct {
	Name string
	Args []Expr
}

func (*Identifier) exprNode() {}
func (*Literal) exprNode()    {}
func (*Binary) exprNode()     {}
func (*Function) exprNode()   {}

// String renders the literal in DSL syntax.
func (l *Literal) String() string {
	switch l.Kind {
	case StringLit:
		return strconv.Quote(l.Str)
	case NumberLit:
		return strconv.FormatFloat(l.Num, 'f', -1, 64)
	case BoolLit:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return "NULL"
	}
}

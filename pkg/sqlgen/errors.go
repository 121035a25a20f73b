package sqlgen

import "fmt"

// ErrorKind classifies a generation error.
type ErrorKind int

// Generation error kinds.
const (
	UnsupportedOperation ErrorKind = iota
	InvalidColumnReference
	ComplexExpression
	InvalidAst
	UnsupportedAggregateFunction
	InvalidTypeConversion
	CircularReference
	MaxNestingDepthExceeded
	EmptyQuery
)

var kindNames = [...]string{
	UnsupportedOperation:         "unsupported operation",
	InvalidColumnReference:       "invalid column reference",
	ComplexExpression:            "complex expression",
	InvalidAst:                   "invalid AST",
	UnsupportedAggregateFunction: "unsupported aggregate function",
	InvalidTypeConversion:        "invalid type conversion",
	CircularReference:            "circular reference",
	MaxNestingDepthExceeded:      "maximum nesting depth exceeded",
	EmptyQuery:                   "empty query",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// GenerationError is returned by Generate. Generation stops at the first
// error and produces no partial SQL.
type GenerationError struct {
	Kind      ErrorKind
	Operation string // verb or function involved, when known
	Dialect   string // dialect name, for UnsupportedOperation
	Column    string // column involved, when known
	Reason    string
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case UnsupportedOperation:
		return fmt.Sprintf("generation error: %s() is not supported by the %s dialect", e.Operation, e.Dialect)
	case InvalidAst:
		return "generation error: invalid AST: " + e.Reason
	}
	if e.Reason != "" {
		return fmt.Sprintf("generation error: %s: %s", e.Kind, e.Reason)
	}
	return "generation error: " + e.Kind.String()
}

func invalidAst(reason string) *GenerationError {
	return &GenerationError{Kind: InvalidAst, Reason: reason}
}

func invalidColumn(column, format string, args ...any) *GenerationError {
	return &GenerationError{Kind: InvalidColumnReference, Column: column, Reason: fmt.Sprintf(format, args...)}
}

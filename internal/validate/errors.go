package validate

import "fmt"

// Kind classifies an input rejection.
type Kind int

// Rejection kinds.
const (
	EmptyInput Kind = iota
	InputTooLong
	NestingTooDeep
	TooManyFunctionCalls
	SuspiciousPattern
	ExcessiveRepetition
	InvalidEncoding
	UnbalancedStructure
	TooComplex
)

var kindNames = [...]string{
	EmptyInput:           "empty_input",
	InputTooLong:         "input_too_long",
	NestingTooDeep:       "nesting_too_deep",
	TooManyFunctionCalls: "too_many_function_calls",
	SuspiciousPattern:    "suspicious_pattern",
	ExcessiveRepetition:  "excessive_repetition",
	InvalidEncoding:      "invalid_encoding",
	UnbalancedStructure:  "unbalanced_structure",
	TooComplex:           "too_complex",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is returned when input is rejected before transpilation.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
}

func (e *Error) Error() string {
	return "validation error: " + e.Message
}

func reject(kind Kind, hint, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Hint: hint}
}

package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyPipeline is matched by errors.Is when the input holds no operations.
var ErrEmptyPipeline = errors.New("empty pipeline")

// LexErrorKind classifies a lexical error.
type LexErrorKind int

// Lexical error kinds.
const (
	UnexpectedCharacter LexErrorKind = iota
	UnterminatedString
	InvalidNumber
	InvalidIdentifier
	InvalidPipeOperator
	InvalidEscapeSequence
	EmptyInput
)

// LexError represents a lexical analysis error.
type LexError struct {
	Kind LexErrorKind
	Char rune   // offending character, for UnexpectedCharacter and InvalidEscapeSequence
	Text string // offending text, for InvalidNumber, InvalidIdentifier and InvalidPipeOperator
	Pos  Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.describe())
}

func (e *LexError) describe() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf(ErrUnexpectedChar, e.Char)
	case UnterminatedString:
		return ErrUnterminatedString
	case InvalidNumber:
		return fmt.Sprintf(ErrInvalidNumber, e.Text)
	case InvalidIdentifier:
		return fmt.Sprintf(ErrInvalidIdentifier, e.Text)
	case InvalidPipeOperator:
		return fmt.Sprintf(ErrInvalidPipe, e.Text)
	case InvalidEscapeSequence:
		return fmt.Sprintf(ErrInvalidEscape, e.Char)
	default:
		return ErrEmptyInput
	}
}

// ParseErrorKind classifies a parse error.
type ParseErrorKind int

// Parse error kinds.
const (
	UnexpectedToken ParseErrorKind = iota
	InvalidOperation
	MissingArgument
	TooManyArguments
	InvalidExpression
	UnsupportedFunction
	InvalidAlias
	EmptyPipeline
	UnexpectedEOF
	LexFailure
)

// ParseError represents a parsing error with position information.
// Lexical errors surface as ParseError with Kind LexFailure and the
// *LexError reachable through errors.As.
type ParseError struct {
	Kind     ParseErrorKind
	Expected string
	Found    string
	Message  string
	Pos      Position
	Err      error
}

func (e *ParseError) Error() string {
	if e.Kind == LexFailure && e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.describe())
}

func (e *ParseError) describe() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf(ErrUnexpectedToken, e.Found, e.Expected)
	case UnexpectedEOF:
		return fmt.Sprintf(ErrUnexpectedEnd, e.Expected)
	case InvalidOperation:
		return "invalid operation: " + e.Message
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrUnexpectedEnd      = "unexpected end of input, expected %s"
	ErrUnexpectedChar     = "unexpected character %q"
	ErrUnterminatedString = "unterminated string literal"
	ErrInvalidNumber      = "invalid number literal %q"
	ErrInvalidIdentifier  = "invalid identifier %q"
	ErrInvalidPipe        = "invalid pipe operator %q, expected %%>%%"
	ErrInvalidEscape      = "invalid escape sequence \\%c"
	ErrEmptyInput         = "empty input"
)

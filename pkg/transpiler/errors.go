package transpiler

import (
	"errors"

	"github.com/leapstack-labs/leapdplyr/pkg/parser"
)

// Stage names the pipeline stage an error came from.
type Stage string

// Transpilation stages.
const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageGenerate Stage = "generate"
)

// Error is the single error type returned by Transpile. The stage error
// (*parser.LexError, *parser.ParseError or *sqlgen.GenerationError) is
// reachable through errors.As.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the stage error.
func (e *Error) Unwrap() error {
	return e.Err
}

// parseStage distinguishes lexical failures, which the parser reports
// wrapped in a *ParseError, from grammatical ones.
func parseStage(err error) Stage {
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return StageLex
	}
	return StageParse
}

// StageOf returns the stage of a transpile error, or "" for other errors.
func StageOf(err error) Stage {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Stage
	}
	return ""
}

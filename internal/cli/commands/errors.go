package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/internal/validate"
	"github.com/leapstack-labs/leapdplyr/pkg/parser"
	"github.com/leapstack-labs/leapdplyr/pkg/sqlgen"
	"github.com/leapstack-labs/leapdplyr/pkg/transpiler"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitInvalidArgs   = 2
	ExitIO            = 3
	ExitValidation    = 4
	ExitTranspilation = 5
	ExitConfig        = 6
	ExitPermission    = 7
	ExitSystem        = 8
	ExitTimeout       = 10
)

// TimeoutError is returned when transpilation outlives limits.timeout.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transpilation timed out after %s", e.After)
}

// UsageError reports invalid command-line arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &UsageError{Err: err}
}

// reportedError marks an error the command already rendered, so the root
// command only sets the exit code.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already rendered by the command.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		vErr     *validate.Error
		timeout  *TimeoutError
		usage    *UsageError
		batchErr *BatchError
	)
	switch {
	case errors.As(err, &batchErr):
		return batchErr.ExitCode()
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return ExitTimeout
	case errors.Is(err, context.Canceled):
		return ExitSystem
	case errors.As(err, &vErr):
		return ExitValidation
	case stageOf(err) != "":
		return ExitTranspilation
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfig
	case errors.As(err, &usage):
		return ExitInvalidArgs
	case errors.Is(err, fs.ErrPermission):
		return ExitPermission
	case isIOError(err):
		return ExitIO
	}
	return ExitGeneral
}

// stageOf is transpiler.StageOf extended to bare stage errors, as returned
// by parse-only paths.
func stageOf(err error) transpiler.Stage {
	if stage := transpiler.StageOf(err); stage != "" {
		return stage
	}

	var (
		lexErr   *parser.LexError
		parseErr *parser.ParseError
		genErr   *sqlgen.GenerationError
	)
	switch {
	case errors.As(err, &lexErr):
		return transpiler.StageLex
	case errors.As(err, &parseErr):
		return transpiler.StageParse
	case errors.As(err, &genErr):
		return transpiler.StageGenerate
	}
	return ""
}

func isIOError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist)
}

// TopicOf returns the hint topic for err.
func TopicOf(err error) output.Topic {
	var (
		vErr    *validate.Error
		timeout *TimeoutError
		usage   *UsageError
	)
	switch {
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return output.TopicTimeout
	case errors.As(err, &vErr):
		switch vErr.Kind {
		case validate.EmptyInput:
			return output.TopicInput
		case validate.TooComplex, validate.NestingTooDeep, validate.TooManyFunctionCalls:
			return output.TopicComplexity
		}
		return output.TopicValidation
	}

	switch stageOf(err) {
	case transpiler.StageLex:
		return output.TopicLex
	case transpiler.StageParse:
		return output.TopicParse
	case transpiler.StageGenerate:
		return output.TopicGenerate
	}

	switch {
	case errors.Is(err, config.ErrInvalidConfig):
		return output.TopicConfig
	case errors.As(err, &usage):
		return output.TopicInput
	case errors.Is(err, fs.ErrNotExist):
		return output.TopicNotFound
	case errors.Is(err, fs.ErrPermission):
		return output.TopicPermission
	case isIOError(err):
		return output.TopicIO
	}
	return output.TopicGeneral
}

// ErrorBody describes err for a JSON envelope.
func ErrorBody(err error, lang string) output.ErrorBody {
	topic := TopicOf(err)
	hint := output.HintFor(topic, lang)
	body := output.ErrorBody{
		Topic:       topic,
		Stage:       string(stageOf(err)),
		Message:     err.Error(),
		ExitCode:    ExitCode(err),
		Description: hint.Description,
		Suggestions: hint.Suggestions,
	}

	var vErr *validate.Error
	if errors.As(err, &vErr) {
		body.Stage = "validate"
		if vErr.Hint != "" {
			body.Suggestions = append([]string{vErr.Hint}, body.Suggestions...)
		}
	}
	return body
}

// ReportError renders err with its hint in the renderer's mode.
func ReportError(r *output.Renderer, err error, lang string) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(output.ErrorEnvelope(ErrorBody(err, lang), output.NewMetadata("", output.InputInfo{})))
		return
	}

	hint := output.HintFor(TopicOf(err), lang)
	var vErr *validate.Error
	if errors.As(err, &vErr) && vErr.Hint != "" {
		hint.Suggestions = append([]string{vErr.Hint}, hint.Suggestions...)
	}
	r.ErrorWithHint(err.Error(), hint, lang)
}

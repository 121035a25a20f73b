// Package transpiler joins the lexer, parser and SQL generator into one
// call:
//
//	t := transpiler.New(postgres.Postgres)
//	sql, err := t.Transpile("select(name) %>% filter(age > 18)")
//
// A Transpiler is bound to one dialect and holds no per-call state, so a
// single value may serve concurrent callers.
package transpiler

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/leapstack-labs/leapdplyr/pkg/parser"
	"github.com/leapstack-labs/leapdplyr/pkg/sqlgen"
)

// Transpiler converts dplyr source to SQL for one dialect.
type Transpiler struct {
	dialect   dialect.Dialect
	generator *sqlgen.Generator
	logger    *slog.Logger
}

type options struct {
	logger  *slog.Logger
	genOpts []sqlgen.Option
}

// Option configures a Transpiler.
type Option func(*options)

// WithLogger sets the logger used for stage timings at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDefaultTable sets the FROM table of pipelines without a source.
func WithDefaultTable(name string) Option {
	return func(o *options) {
		o.genOpts = append(o.genOpts, sqlgen.WithDefaultTable(name))
	}
}

// WithLimit appends a LIMIT clause to every generated query.
func WithLimit(n int) Option {
	return func(o *options) {
		o.genOpts = append(o.genOpts, sqlgen.WithLimit(n))
	}
}

// WithMaxDepth bounds expression nesting during generation.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.genOpts = append(o.genOpts, sqlgen.WithMaxDepth(n))
	}
}

// New creates a Transpiler for d.
func New(d dialect.Dialect, opts ...Option) *Transpiler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Transpiler{
		dialect:   d,
		generator: sqlgen.New(d, o.genOpts...),
		logger:    o.logger,
	}
}

// ForDialect creates a Transpiler for a registered dialect name or alias.
func ForDialect(name string, opts ...Option) (*Transpiler, error) {
	d, err := dialect.Lookup(name)
	if err != nil {
		return nil, err
	}
	return New(d, opts...), nil
}

// Dialect returns the target dialect.
func (t *Transpiler) Dialect() dialect.Dialect { return t.dialect }

// Transpile converts dplyr source to SQL. Errors are *Error.
func (t *Transpiler) Transpile(src string) (string, error) {
	start := time.Now()
	root, err := parser.Parse(src)
	if err != nil {
		stage := parseStage(err)
		t.logger.Debug("transpile failed", slog.String("stage", string(stage)), slog.String("error", err.Error()))
		return "", &Error{Stage: stage, Err: err}
	}
	parsed := time.Now()

	sql, err := t.generator.Generate(root)
	if err != nil {
		t.logger.Debug("transpile failed", slog.String("stage", string(StageGenerate)), slog.String("error", err.Error()))
		return "", &Error{Stage: StageGenerate, Err: err}
	}

	t.logger.Debug("transpiled",
		slog.String("dialect", t.dialect.Name()),
		slog.Int("input_bytes", len(src)),
		slog.Duration("parse", parsed.Sub(start)),
		slog.Duration("generate", time.Since(parsed)),
	)
	return sql, nil
}

// TranspileContext is Transpile bounded by ctx. Transpilation itself does
// not yield, so ctx is checked on entry, and the result is discarded if
// ctx expired in the meantime.
func (t *Transpiler) TranspileContext(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sql, err := t.Transpile(src)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return sql, err
}

// Parse lexes and parses without generating.
func (t *Transpiler) Parse(src string) (ast.Root, error) {
	return parser.Parse(src)
}

// Generate renders an already parsed AST.
func (t *Transpiler) Generate(root ast.Root) (string, error) {
	return t.generator.Generate(root)
}

// Transpile converts src for d with default options.
func Transpile(src string, d dialect.Dialect) (string, error) {
	return New(d).Transpile(src)
}

// Parse lexes and parses src. Errors are *parser.ParseError.
func Parse(src string) (ast.Root, error) {
	return parser.Parse(src)
}

// Generate renders root for d. Errors are *sqlgen.GenerationError.
func Generate(root ast.Root, d dialect.Dialect) (string, error) {
	return sqlgen.New(d).Generate(root)
}

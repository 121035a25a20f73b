package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapdplyr/internal/cache"
	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/internal/validate"
	"github.com/leapstack-labs/leapdplyr/pkg/format"
	"github.com/leapstack-labs/leapdplyr/pkg/transpiler"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Renderer   *output.Renderer
	Transpiler *transpiler.Transpiler
	Cache      *cache.Cache // nil when caching is disabled
	Style      format.Style

	limit int
	opts  []transpiler.Option
}

// Result is one successful transpilation.
type Result struct {
	SQL     string
	Cached  bool
	Elapsed time.Duration
}

// NewCommandContext builds the dependencies of a command from the loaded
// configuration. A positive limit appends a LIMIT clause to every query.
func NewCommandContext(cmd *cobra.Command, limit int) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, usageError(err)
	}
	style, err := format.ParseStyle(cfg.Format)
	if err != nil {
		return nil, usageError(err)
	}

	opts := []transpiler.Option{
		transpiler.WithLogger(logger),
		transpiler.WithDefaultTable(cfg.Table),
		transpiler.WithMaxDepth(cfg.Limits.MaxNestingDepth),
	}
	if limit > 0 {
		opts = append(opts, transpiler.WithLimit(limit))
	}
	tr, err := transpiler.ForDialect(cfg.Dialect, opts...)
	if err != nil {
		return nil, usageError(err)
	}

	cc := &CommandContext{
		Cfg:        cfg,
		Logger:     logger,
		Renderer:   output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
		Transpiler: tr,
		Style:      style,
		limit:      limit,
		opts:       opts,
	}
	if cfg.Cache.Enabled {
		cc.Cache = cache.New(cfg.Cache.Size,
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithMeterProvider(otel.GetMeterProvider()),
		)
	}
	return cc, nil
}

// Dialect returns the name of the target dialect.
func (cc *CommandContext) Dialect() string {
	return cc.Transpiler.Dialect().Name()
}

// SetDialect retargets the context to another registered dialect.
func (cc *CommandContext) SetDialect(name string) error {
	tr, err := transpiler.ForDialect(name, cc.opts...)
	if err != nil {
		return usageError(err)
	}
	cc.Transpiler = tr
	return nil
}

// SetStyle changes the SQL layout style.
func (cc *CommandContext) SetStyle(name string) error {
	style, err := format.ParseStyle(name)
	if err != nil {
		return usageError(err)
	}
	cc.Style = style
	return nil
}

// Limits returns the validation limits from the configuration.
func (cc *CommandContext) Limits() validate.Limits {
	return validate.Limits{
		MaxInputLength:   cc.Cfg.Limits.MaxInputLength,
		MaxNestingDepth:  cc.Cfg.Limits.MaxNestingDepth,
		MaxFunctionCalls: cc.Cfg.Limits.MaxFunctionCalls,
	}
}

// Transpile validates src, then transpiles and formats it, consulting the
// cache when enabled. The work runs on its own goroutine and is abandoned
// once the configured timeout passes or ctx is cancelled.
func (cc *CommandContext) Transpile(ctx context.Context, src string) (Result, error) {
	start := time.Now()
	if err := validate.Input(src, cc.Limits()); err != nil {
		return Result{}, err
	}

	timeout := cc.Cfg.Limits.Timeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		sql    string
		cached bool
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		sql, cached, err := cc.transpileCached(ctx, src)
		done <- outcome{sql, cached, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return Result{}, o.err
		}
		res := Result{SQL: o.sql, Cached: o.cached, Elapsed: time.Since(start)}
		cc.Logger.Debug("transpile finished",
			slog.String("dialect", cc.Dialect()),
			slog.Bool("cached", res.Cached),
			slog.Duration("elapsed", res.Elapsed),
		)
		return res, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, &TimeoutError{After: timeout}
		}
		return Result{}, ctx.Err()
	}
}

func (cc *CommandContext) transpileCached(ctx context.Context, src string) (string, bool, error) {
	run := func() (string, error) {
		sql, err := cc.Transpiler.TranspileContext(ctx, src)
		if err != nil {
			return "", err
		}
		return format.Format(sql, cc.Style), nil
	}
	if cc.Cache == nil {
		sql, err := run()
		return sql, false, err
	}

	key := cache.NewKey(cache.Canonical(src), cc.Dialect(), cc.Cfg.Table, string(cc.Style), strconv.Itoa(cc.limit))
	return cc.Cache.GetOrTranspile(ctx, key, run)
}

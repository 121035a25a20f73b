package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	OutDir   string
	Limit    int
	FailFast bool
}

// BatchResult is the outcome for one file.
type BatchResult struct {
	File   string
	SQL    string
	Target string
	Cached bool
	Err    error
}

// BatchError is returned when at least one file failed.
type BatchError struct {
	Failed int
	Total  int
	First  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d files failed: %v", e.Failed, e.Total, e.First)
}

func (e *BatchError) Unwrap() error { return e.First }

// ExitCode is the exit code of the first failure.
func (e *BatchError) ExitCode() int {
	return ExitCode(e.First)
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file|dir>...",
		Short: "Transpile many files concurrently",
		Long: `Transpile every given file, and every .R and .dplyr file in the given
directories, using a bounded pool of workers. Results are reported in
input order. The number of workers is set by --concurrency or
batch.concurrency. With --out-dir each result is written to <name>.sql.`,
		Example: `  leapdplyr batch pipelines/ --out-dir sql/
  leapdplyr batch a.R b.R --concurrency 2 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Write <name>.sql files to this directory")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Append a LIMIT clause")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop at the first failure")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string, opts *BatchOptions) error {
	cc, err := NewCommandContext(cmd, opts.Limit)
	if err != nil {
		return err
	}

	files, err := expandSources(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return usageError(errors.New("no dplyr source files to transpile"))
	}

	start := time.Now()
	results := TranspileFiles(cmd.Context(), cc, files, cc.Cfg.Batch.Concurrency, opts.FailFast)
	if opts.OutDir != "" {
		for i := range results {
			if results[i].Err != nil {
				continue
			}
			results[i].Target, results[i].Err = writeSQLFile(opts.OutDir, results[i].File, results[i].SQL)
		}
	}

	return reportBatch(cc, results, time.Since(start))
}

// expandSources resolves directories to the source files they contain.
func expandSources(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && isSourceFile(e.Name()) {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
	}
	return files, nil
}

// TranspileFiles transpiles files with at most concurrency in flight. The
// results keep the order of files. With failFast the first failure
// cancels the files not yet started.
func TranspileFiles(ctx context.Context, cc *CommandContext, files []string, concurrency int, failFast bool) []BatchResult {
	results := make([]BatchResult, len(files))
	for i, f := range files {
		results[i].File = f
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			data, err := os.ReadFile(file)
			if err != nil {
				results[i].Err = fmt.Errorf("failed to read input: %w", err)
			} else {
				var res Result
				res, err = cc.Transpile(gctx, string(data))
				results[i].SQL, results[i].Cached, results[i].Err = res.SQL, res.Cached, err
			}
			if err != nil && failFast {
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func reportBatch(cc *CommandContext, results []BatchResult, elapsed time.Duration) error {
	r := cc.Renderer
	var batchErr *BatchError
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		if batchErr == nil {
			batchErr = &BatchError{Total: len(results), First: res.Err}
		}
		batchErr.Failed++
	}

	if r.EffectiveMode() == output.ModeJSON {
		envelopes := make([]output.Envelope, len(results))
		for i, res := range results {
			meta := output.NewMetadata(cc.Dialect(), output.InputInfo{Source: res.File})
			meta.Cached = res.Cached
			if res.Err != nil {
				envelopes[i] = output.ErrorEnvelope(ErrorBody(res.Err, cc.Cfg.Lang), meta)
				continue
			}
			envelopes[i] = output.SuccessEnvelope(res.SQL, meta)
		}
		if err := r.JSON(envelopes); err != nil {
			return err
		}
		if batchErr != nil {
			return &reportedError{err: batchErr}
		}
		return nil
	}

	for _, res := range results {
		name := filepath.Base(res.File)
		switch {
		case res.Err != nil:
			r.StatusLine(name, "failed", res.Err.Error())
		case res.Target != "":
			r.StatusLine(name, "success", "→ "+res.Target)
		default:
			r.StatusLine(name, "success", "")
			r.SQL(res.SQL)
		}
	}

	r.Println()
	ok := len(results)
	if batchErr != nil {
		ok -= batchErr.Failed
	}
	r.Muted(fmt.Sprintf("%d/%d succeeded in %s", ok, len(results), elapsed.Round(time.Millisecond)))
	if batchErr != nil {
		return &reportedError{err: batchErr}
	}
	return nil
}

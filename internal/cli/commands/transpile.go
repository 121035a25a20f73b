package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/spf13/cobra"
)

// TranspileOptions holds options for the transpile command.
type TranspileOptions struct {
	Input string
	Out   string
	Limit int
	Stats bool
	Quiet bool
}

// NewTranspileCommand creates the transpile command.
func NewTranspileCommand() *cobra.Command {
	opts := &TranspileOptions{}

	cmd := &cobra.Command{
		Use:     "transpile [dplyr code]",
		Aliases: []string{"t", "sql"},
		Short:   "Convert dplyr code to SQL",
		Long: `Convert a dplyr pipeline to SQL for the selected dialect.

The code is read from the arguments, from --input, or from stdin when
neither is given. Input is validated before it reaches the transpiler.`,
		Example: `  # Transpile an argument
  leapdplyr transpile "select(name, age) %>% filter(age > 18)"

  # Read from a file and target MySQL
  leapdplyr transpile -i query.R -d mysql

  # Pipe from stdin with pretty formatting
  echo "group_by(dept) %>% summarise(n = n())" | leapdplyr transpile --format pretty

  # Emit a JSON envelope
  leapdplyr transpile -o json "arrange(desc(salary))"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunTranspile(cmd, args, opts)
		},
	}

	AddTranspileFlags(cmd, opts)
	return cmd
}

// AddTranspileFlags registers the transpile flags on cmd.
func AddTranspileFlags(cmd *cobra.Command, opts *TranspileOptions) {
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read dplyr code from a file (- for stdin)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write the SQL to a file instead of stdout")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Append a LIMIT clause")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Print timing and cache statistics to stderr")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print only the SQL")
}

// RunTranspile executes the transpile command.
func RunTranspile(cmd *cobra.Command, args []string, opts *TranspileOptions) error {
	src, source, err := readInput(cmd, args, opts.Input)
	if err != nil {
		return err
	}

	cc, err := NewCommandContext(cmd, opts.Limit)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := cc.Transpile(cmd.Context(), src)
	cc.Logger.Info("transpile",
		slog.String("source", source),
		slog.String("dialect", cc.Dialect()),
		slog.Bool("ok", err == nil),
	)

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		meta := output.NewMetadata(cc.Dialect(), output.DescribeInput(source, src))
		meta.Elapsed(start)
		if err != nil {
			_ = cc.Renderer.JSON(output.ErrorEnvelope(ErrorBody(err, cc.Cfg.Lang), meta))
			return &reportedError{err: err}
		}
		meta.Cached = res.Cached
		return cc.Renderer.JSON(output.SuccessEnvelope(res.SQL, meta))
	}
	if err != nil {
		return err
	}

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, []byte(res.SQL+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !opts.Quiet {
			cc.Renderer.Success(fmt.Sprintf("Wrote %s", opts.Out))
		}
	} else {
		cc.Renderer.SQL(res.SQL)
	}

	if opts.Stats && !opts.Quiet {
		writeStats(cc, res)
	}
	return nil
}

func writeStats(cc *CommandContext, res Result) {
	w := cc.Renderer.ErrWriter()
	_, _ = fmt.Fprintf(w, "dialect: %s\n", cc.Dialect())
	_, _ = fmt.Fprintf(w, "elapsed: %s\n", res.Elapsed.Round(time.Microsecond))
	_, _ = fmt.Fprintf(w, "cached: %t\n", res.Cached)
	if cc.Cache != nil {
		_, _ = fmt.Fprintf(w, "cache: %s\n", cc.Cache.Stats())
	}
}

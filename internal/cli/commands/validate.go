package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Input         string
	MaxComplexity int
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [dplyr code]",
		Short: "Check dplyr code without generating SQL",
		Long: `Validate dplyr code and summarise the pipeline.

Runs the input checks and the parser, then reports the operations,
referenced columns, aggregation and grouping, and a complexity score
from 0 to 10. No SQL is generated.`,
		Example: `  leapdplyr validate "group_by(dept) %>% summarise(avg = mean(salary))"
  leapdplyr validate -i pipeline.R --max-complexity 6
  leapdplyr validate -o json "select(a, b)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read dplyr code from a file (- for stdin)")
	cmd.Flags().IntVar(&opts.MaxComplexity, "max-complexity", 0, "Fail when the complexity score exceeds this value (0 disables)")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	src, source, err := readInput(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	cc, err := NewCommandContext(cmd, 0)
	if err != nil {
		return err
	}

	start := time.Now()
	summary, err := validateSource(src, cc.Limits(), opts.MaxComplexity)

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		meta := output.NewMetadata(cc.Dialect(), output.DescribeInput(source, src))
		meta.Elapsed(start)
		if err != nil {
			_ = cc.Renderer.JSON(output.ErrorEnvelope(ErrorBody(err, cc.Cfg.Lang), meta))
			return &reportedError{err: err}
		}
		return cc.Renderer.JSON(output.Envelope{Success: true, Summary: summary, Metadata: meta})
	}
	if err != nil {
		return err
	}

	renderSummary(cc.Renderer, summary)
	return nil
}

func validateSource(src string, limits validate.Limits, maxComplexity int) (*validate.Summary, error) {
	if err := validate.Input(src, limits); err != nil {
		return nil, err
	}
	summary, err := validate.Syntax(src)
	if err != nil {
		return nil, err
	}
	if err := validate.CheckComplexity(summary, maxComplexity); err != nil {
		return nil, err
	}
	return summary, nil
}

func renderSummary(r *output.Renderer, s *validate.Summary) {
	r.Success("Valid dplyr code")
	r.Println()

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"Operations", fmt.Sprintf("%d (%s)", s.OperationCount, strings.Join(s.Operations, " → "))},
		{"Columns", fmt.Sprintf("%d (%s)", s.ColumnCount(), strings.Join(s.Columns, ", "))},
		{"Aggregation", yesNo(s.HasAggregation)},
		{"Grouping", yesNo(s.HasGrouping)},
		{"Complexity", fmt.Sprintf("%d/%d", s.Complexity, validate.MaxComplexity)},
	})
	renderTable(r, t)

	for _, w := range s.Warnings {
		r.Warning(w)
	}
}

// renderTable writes t as a markdown table in markdown mode and as a box
// table otherwise. Headers keep the case they were written in.
func renderTable(r *output.Renderer, t table.Writer) {
	t.Style().Format.Header = text.FormatDefault
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

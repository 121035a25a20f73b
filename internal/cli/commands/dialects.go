package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases"`
	Description   string   `json:"description"`
	Quote         string   `json:"quote"`
	CaseSensitive bool     `json:"case_sensitive"`
	SemiAntiJoin  bool     `json:"semi_anti_join"`
	FullJoin      bool     `json:"full_join"`
	StarExclude   bool     `json:"star_exclude"`
	Functions     []string `json:"functions,omitempty"`
	Default       bool     `json:"default"`
}

// describedDialect is implemented by dialects built with dialect.Builder.
type describedDialect interface {
	Aliases() []string
	Description() string
	Identifiers() dialect.IdentifierConfig
	SupportsStarExclude() bool
	Functions() []string
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	var showFunctions bool

	cmd := &cobra.Command{
		Use:     "dialects [name]",
		Aliases: []string{"dialect"},
		Short:   "List supported SQL dialects",
		Long: `List the SQL dialects leapdplyr can target, or show one dialect in
detail. Names and aliases are both accepted by --dialect.`,
		Example: `  leapdplyr dialects
  leapdplyr dialects mysql --functions
  leapdplyr dialects -o json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return dialect.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			mode, err := output.ParseMode(cfg.Output)
			if err != nil {
				return usageError(err)
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if len(args) == 1 {
				d, err := dialect.Lookup(args[0])
				if err != nil {
					return usageError(err)
				}
				return renderDialect(r, describeDialect(d, cfg.Dialect), showFunctions)
			}
			return renderDialectList(r, ListDialects(cfg.Dialect))
		},
	}

	cmd.Flags().BoolVar(&showFunctions, "functions", false, "List the R functions the dialect translates")
	return cmd
}

// ListDialects describes every registered dialect. current marks the
// configured default.
func ListDialects(current string) []DialectInfo {
	names := dialect.List()
	infos := make([]DialectInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, describeDialect(dialect.MustGet(name), current))
	}
	return infos
}

func describeDialect(d dialect.Dialect, current string) DialectInfo {
	info := DialectInfo{
		Name:          d.Name(),
		Aliases:       []string{},
		Quote:         d.QuoteIdentifier("x")[:1],
		CaseSensitive: d.IsCaseSensitive(),
		SemiAntiJoin:  dialect.SupportsSemiAntiJoin(d),
		FullJoin:      dialect.SupportsFullJoin(d),
	}
	if cur, err := dialect.Lookup(current); err == nil {
		info.Default = cur.Name() == d.Name()
	}
	if dd, ok := d.(describedDialect); ok {
		info.Aliases = dd.Aliases()
		info.Description = dd.Description()
		info.Quote = dd.Identifiers().Quote
		info.StarExclude = dd.SupportsStarExclude()
		info.Functions = dd.Functions()
	}
	return info
}

func renderDialectList(r *output.Renderer, infos []DialectInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		for i := range infos {
			infos[i].Functions = nil
		}
		return r.JSON(infos)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dialect", "Aliases", "Quote", "Semi/Anti Join", "Full Join", "Description"})
	for _, info := range infos {
		name := info.Name
		if info.Default {
			name += " *"
		}
		t.AppendRow(table.Row{
			name,
			strings.Join(info.Aliases, ", "),
			info.Quote,
			yesNo(info.SemiAntiJoin),
			yesNo(info.FullJoin),
			info.Description,
		})
	}
	renderTable(r, t)
	r.Println()
	r.Muted("* configured default")
	return nil
}

func renderDialect(r *output.Renderer, info DialectInfo, showFunctions bool) error {
	if !showFunctions {
		info.Functions = nil
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	title := cases.Title(language.English)
	r.Header(1, info.Name)
	if info.Description != "" {
		r.Println(info.Description)
		r.Println()
	}

	capabilities := []struct {
		name  string
		value string
	}{
		{"aliases", strings.Join(info.Aliases, ", ")},
		{"identifier quote", info.Quote},
		{"case sensitive", yesNo(info.CaseSensitive)},
		{"semi and anti join", yesNo(info.SemiAntiJoin)},
		{"full join", yesNo(info.FullJoin)},
		{"star exclude", yesNo(info.StarExclude)},
	}
	for _, c := range capabilities {
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatKeyValue(title.String(c.name), c.value))
			continue
		}
		r.Printf("%-20s %s\n", r.Styles().Bold.Render(title.String(c.name)+":"), c.value)
	}

	if len(info.Functions) > 0 {
		r.Println()
		r.Header(2, "Functions")
		r.Println(strings.Join(info.Functions, ", "))
	}
	return nil
}

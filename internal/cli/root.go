// Package cli provides the command-line interface for leapdplyr.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapdplyr/internal/cli/commands"
	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/leapstack-labs/leapdplyr/pkg/format"
	"github.com/spf13/cobra"

	// Register every built-in dialect.
	_ "github.com/leapstack-labs/leapdplyr/pkg/dialects/all"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command. Given dplyr code, or
// input on stdin, the root command transpiles it directly.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	transpileOpts := &commands.TranspileOptions{}

	rootCmd := &cobra.Command{
		Use:   "leapdplyr [dplyr code]",
		Short: "leapdplyr - dplyr to SQL transpiler",
		Long: `leapdplyr converts R dplyr pipelines into SQL for PostgreSQL, MySQL,
SQLite, DuckDB, Snowflake, Databricks and ANSI SQL.

Run it with dplyr code, pipe code on stdin, or use one of the commands
below for validation, an interactive session, file watching or batch
conversion.`,
		Example: `  leapdplyr "select(name, age) %>% filter(age > 18)"
  cat query.R | leapdplyr -d duckdb
  leapdplyr repl`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.LogLevel(),
			}))
			if cfg.ConfigFile != "" {
				logger.Info("using config file", slog.String("path", cfg.ConfigFile))
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && transpileOpts.Input == "" && commands.IsInteractive(cmd.InOrStdin()) {
				return cmd.Help()
			}
			return commands.RunTranspile(cmd, args, transpileOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
dplyr to SQL transpiler
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./leapdplyr.yaml)")
	flags.StringP("dialect", "d", "", "Target SQL dialect (default postgresql)")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	flags.String("format", "", "SQL layout (default|pretty|compact)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Bool("debug", false, "Debug logging")
	flags.String("lang", "", "Language of error hints (en|ko)")
	flags.String("table", "", "Source table when the pipeline names none (default data)")
	flags.Bool("no-cache", false, "Disable the transpile cache")
	flags.Int("cache-size", 0, "Maximum number of cached transpilations")
	flags.Duration("timeout", 0, "Abandon a transpilation after this long")
	flags.Int("concurrency", 0, "Number of files transpiled at once by batch")
	flags.Int("max-depth", 0, "Maximum nesting depth of the input")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		styles := make([]string, len(format.Styles))
		for i, st := range format.Styles {
			styles[i] = string(st)
		}
		return styles, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("lang", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"en", "ko"}, cobra.ShellCompDirectiveNoFileComp
	})

	commands.AddTranspileFlags(rootCmd, transpileOpts)

	rootCmd.AddCommand(commands.NewTranspileCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewBatchCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCmd())
}

// run executes cmd and reports its error. Errors a command already
// rendered are only turned into an exit code.
func run(ctx context.Context, cmd *cobra.Command) int {
	executed, err := cmd.ExecuteContextC(ctx)
	if err == nil {
		return commands.ExitOK
	}
	if !commands.IsReported(err) {
		cfg := config.FromContext(executed.Context())
		mode, modeErr := output.ParseMode(cfg.Output)
		if modeErr != nil {
			mode = output.ModeAuto
		}
		r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
		commands.ReportError(r, err, cfg.Lang)
	}
	return commands.ExitCode(err)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leapdplyr.

To load completions:

Bash:
  $ source <(leapdplyr completion bash)

Zsh:
  $ leapdplyr completion zsh > "${fpath[1]}/_leapdplyr"

Fish:
  $ leapdplyr completion fish | source

PowerShell:
  PS> leapdplyr completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
	return cmd
}

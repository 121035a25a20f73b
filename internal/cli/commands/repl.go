package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapdplyr/internal/cli/output"
	"github.com/leapstack-labs/leapdplyr/internal/validate"
	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"github.com/leapstack-labs/leapdplyr/pkg/format"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "dplyr> "
	replContinuePrompt = "  ...> "
	historyFileName    = ".leapdplyr_history"
)

// verbs offered by tab completion.
var replVerbs = []string{
	"select(", "filter(", "mutate(", "rename(", "arrange(", "group_by(",
	"summarise(", "summarize(", "inner_join(", "left_join(", "right_join(",
	"full_join(", "semi_join(", "anti_join(",
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var historyFile string

	cmd := &cobra.Command{
		Use:     "repl",
		Aliases: []string{"shell", "interactive"},
		Short:   "Transpile dplyr code interactively",
		Long: `Start an interactive session. Each complete pipeline is transpiled
as soon as it is entered; a line ending in %>% or |>, or with unclosed
parentheses, continues on the next line.`,
		Example: `  leapdplyr repl
  leapdplyr repl -d duckdb --format pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, historyFile)
		},
	}

	cmd.Flags().StringVar(&historyFile, "history", defaultHistoryFile(), "History file (empty disables history)")
	return cmd
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

func runREPL(cmd *cobra.Command, historyFile string) error {
	cc, err := NewCommandContext(cmd, 0)
	if err != nil {
		return err
	}

	rlConfig := &readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	}
	if in := cmd.InOrStdin(); in != os.Stdin {
		rlConfig.Stdin = io.NopCloser(in)
	}
	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newREPLSession(cmd.Context(), cc)
	cc.Renderer.Printf("leapdplyr REPL (dialect: %s)\n", cc.Dialect())
	cc.Renderer.Println("Type .help for commands, .quit to exit")
	cc.Renderer.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if session.handleLine(line) {
			return nil
		}
		rl.SetPrompt(session.prompt())
	}
}

// replSession holds the state of one interactive session apart from the
// terminal, so it can be driven line by line.
type replSession struct {
	ctx     context.Context
	cc      *CommandContext
	pending strings.Builder
}

func newREPLSession(ctx context.Context, cc *CommandContext) *replSession {
	return &replSession{ctx: ctx, cc: cc}
}

func (s *replSession) prompt() string {
	if s.pending.Len() > 0 {
		return replContinuePrompt
	}
	return replPrompt
}

func (s *replSession) reset() {
	s.pending.Reset()
}

// handleLine processes one input line and reports whether the session
// should end.
func (s *replSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.pending.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	if s.pending.Len() > 0 {
		s.pending.WriteString("\n")
	}
	s.pending.WriteString(line)
	src := s.pending.String()
	if needsContinuation(src) {
		return false
	}
	s.pending.Reset()

	r := s.cc.Renderer
	res, err := s.cc.Transpile(s.ctx, src)
	if err != nil {
		ReportError(r, err, s.cc.Cfg.Lang)
		return false
	}
	r.SQL(res.SQL)
	if res.Cached {
		r.Muted("(cached)")
	}
	r.Println()
	return false
}

// needsContinuation reports whether src is an unfinished pipeline.
func needsContinuation(src string) bool {
	trimmed := strings.TrimSpace(src)
	if strings.HasSuffix(trimmed, "%>%") || strings.HasSuffix(trimmed, "|>") || strings.HasSuffix(trimmed, ",") {
		return true
	}
	return strings.Count(trimmed, "(") > strings.Count(trimmed, ")") && validate.Structure(trimmed) != nil
}

func (s *replSession) handleDotCommand(line string) bool {
	r := s.cc.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".dialect":
		if len(parts) < 2 {
			r.Printf("Current dialect: %s\n", s.cc.Dialect())
			return false
		}
		if err := s.cc.SetDialect(parts[1]); err != nil {
			r.Error(err.Error())
			return false
		}
		r.Success("Dialect set to " + s.cc.Dialect())

	case ".dialects":
		for _, name := range dialect.List() {
			marker := "  "
			if name == s.cc.Dialect() {
				marker = "* "
			}
			r.Println(marker + name)
		}

	case ".format":
		if len(parts) < 2 {
			r.Printf("Current format: %s\n", s.cc.Style)
			return false
		}
		if err := s.cc.SetStyle(parts[1]); err != nil {
			r.Error(err.Error())
			return false
		}
		r.Success("Format set to " + string(s.cc.Style))

	case ".stats":
		if s.cc.Cache == nil {
			r.Muted("cache disabled")
			return false
		}
		stats := s.cc.Cache.Stats()
		r.Println(stats.String())
		for _, w := range stats.Warnings() {
			r.Warning(w)
		}

	case ".reset":
		if s.cc.Cache != nil {
			s.cc.Cache.Clear()
		}
		r.Success("Cache cleared")

	case ".clear":
		if r.EffectiveMode() == output.ModeText {
			r.Printf("\033[H\033[2J")
		}

	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	styles := make([]string, len(format.Styles))
	for i, st := range format.Styles {
		styles[i] = string(st)
	}

	help := fmt.Sprintf(`
Commands:
  .help             Show this help message
  .dialect [name]   Show or change the target dialect
  .dialects         List available dialects
  .format [style]   Show or change the SQL layout (%s)
  .stats            Show cache statistics
  .reset            Clear the cache
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - End a line with %%>%% or |> to continue the pipeline
  - Use arrow keys to navigate history
  - Tab completes verbs and dot-commands
`, strings.Join(styles, ", "))
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes verbs, dot-commands and dialect names.
func newREPLCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, verb := range replVerbs {
		items = append(items, readline.PcItem(verb))
	}

	var dialects []readline.PrefixCompleterInterface
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}
	var styles []readline.PrefixCompleterInterface
	for _, st := range format.Styles {
		styles = append(styles, readline.PcItem(string(st)))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".dialects"),
		readline.PcItem(".format", styles...),
		readline.PcItem(".stats"),
		readline.PcItem(".reset"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}

package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdplyr/internal/cli"
	"github.com/leapstack-labs/leapdplyr/internal/cli/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes an index page and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	rootCmd := cli.NewRootCmd()
	if err := writePage(outDir, "index.md", cliIndexPage(rootCmd)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}

	for _, cmd := range documentedCommands(rootCmd) {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
	}
	return nil
}

func documentedCommands(rootCmd *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// exitCodes documents the process exit codes.
var exitCodes = []struct {
	code    int
	meaning string
}{
	{commands.ExitOK, "Success"},
	{commands.ExitGeneral, "Unexpected error"},
	{commands.ExitInvalidArgs, "Invalid arguments"},
	{commands.ExitIO, "Input file could not be read or output written"},
	{commands.ExitValidation, "Input failed validation"},
	{commands.ExitTranspilation, "Lexing, parsing or SQL generation failed"},
	{commands.ExitConfig, "Invalid configuration"},
	{commands.ExitPermission, "Permission denied"},
	{commands.ExitSystem, "Interrupted"},
	{commands.ExitTimeout, "Transpilation timed out"},
}

// cliIndexPage builds the CLI overview page.
func cliIndexPage(rootCmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for leapdplyr")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("leapdplyr converts dplyr pipelines into SQL. Pass code as an argument, pipe it on stdin, or use one of the commands below.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapdplyr/cmd/leapdplyr@latest")

	w.Header(2, "Basic Usage")
	w.CodeBlock("bash", `leapdplyr "select(name, age) %>% filter(age > 18)"
cat query.R | leapdplyr -d duckdb
leapdplyr <command> [options]`)

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documentedCommands(rootCmd) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set with a `LEAPDPLYR_` variable. Nested keys join their section and name with an underscore:")
	w.Table([]string{"Variable", "Configuration key"}, [][]string{
		{InlineCode("LEAPDPLYR_DIALECT"), InlineCode("dialect")},
		{InlineCode("LEAPDPLYR_OUTPUT"), InlineCode("output")},
		{InlineCode("LEAPDPLYR_TABLE"), InlineCode("table")},
		{InlineCode("LEAPDPLYR_CACHE_SIZE"), InlineCode("cache.size")},
		{InlineCode("LEAPDPLYR_LIMITS_TIMEOUT"), InlineCode("limits.timeout")},
		{InlineCode("LEAPDPLYR_BATCH_CONCURRENCY"), InlineCode("batch.concurrency")},
	})
	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over `leapdplyr.yaml`.")

	w.Header(2, "Exit Codes")
	var exitRows [][]string
	for _, ec := range exitCodes {
		exitRows = append(exitRows, []string{InlineCode(strconv.Itoa(ec.code)), ec.meaning})
	}
	w.Table([]string{"Code", "Meaning"}, exitRows)

	w.Header(2, "Getting Help")
	w.CodeBlock("bash", `# General help
leapdplyr help
leapdplyr --help

# Command-specific help
leapdplyr batch --help`)

	return w
}

// commandPage builds the page of a single command.
func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(cmd.Aliases))
		for i, alias := range cmd.Aliases {
			aliases[i] = InlineCode(alias)
		}
		w.BulletList(aliases)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return w
}

// writeFlagsTable writes one row per visible flag.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		var short string
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		rows = append(rows, []string{
			InlineCode("--" + f.Name),
			short,
			flagDefault(f),
			cleanDescription(f.Usage),
		})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// flagDefault renders a flag's default value. Zero values are left blank.
func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "0", "0s", "false", "[]":
		return ""
	}
	return InlineCode(f.DefValue)
}

// dedent strips the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	margin := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); margin < 0 || n < margin {
			margin = n
		}
	}
	for i, line := range lines {
		if len(line) >= margin && margin > 0 {
			lines[i] = line[margin:]
		}
	}
	return strings.Join(lines, "\n")
}

package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/leapstack-labs/leapdplyr/internal/cli/commands"
	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
)

// generateDialectDocs writes the dialect reference from the registry.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)
	infos := commands.ListDialects(config.DefaultDialect)
	if err := writePage(outDir, "dialects.md", dialectsPage(infos)); err != nil {
		return fmt.Errorf("failed to generate dialects.md: %w", err)
	}
	return nil
}

func dialectsPage(infos []commands.DialectInfo) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("Dialects", "SQL dialects supported by leapdplyr")
	w.GeneratedMarker()

	w.Header(1, "Dialects")
	w.Paragraph("Select a dialect with `--dialect` or the `dialect` configuration key. Aliases are accepted wherever a name is.")

	var rows [][]string
	for _, info := range infos {
		name := InlineCode(info.Name)
		if info.Default {
			name += " (default)"
		}
		rows = append(rows, []string{
			name,
			inlineList(info.Aliases),
			InlineCode(info.Quote),
			yesNo(info.SemiAntiJoin),
			yesNo(info.FullJoin),
			yesNo(info.StarExclude),
		})
	}
	w.Table([]string{"Dialect", "Aliases", "Quote", "Semi/Anti Join", "Full Join", "Star Exclude"}, rows)

	w.Paragraph("Without native semi and anti joins, `semi_join` and `anti_join` are rendered as `EXISTS` and `NOT EXISTS` subqueries.")

	for _, info := range infos {
		w.Header(2, info.Name)
		if info.Description != "" {
			w.Paragraph(info.Description)
		}
		if len(info.Functions) > 0 {
			w.Header(3, "Translated functions")
			w.Paragraph(inlineList(info.Functions))
		}
	}

	return w
}

func inlineList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = InlineCode(s)
	}
	return strings.Join(quoted, ", ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

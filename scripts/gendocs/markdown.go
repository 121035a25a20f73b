package main

import (
	"bytes"
	"fmt"
	"strings"
)

// MarkdownWriter builds a markdown document for the docs site.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter creates an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes the YAML frontmatter block.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.buf.WriteString("---\n")
	fmt.Fprintf(&w.buf, "title: %q\n", title)
	fmt.Fprintf(&w.buf, "description: %q\n", cleanDescription(description))
	w.buf.WriteString("---\n\n")
}

// GeneratedMarker notes that the page must not be edited by hand.
func (w *MarkdownWriter) GeneratedMarker() {
	w.buf.WriteString("<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->\n\n")
}

// Header writes a heading of the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	fmt.Fprintf(&w.buf, "%s %s\n\n", strings.Repeat("#", level), text)
}

// Paragraph writes a block of text.
func (w *MarkdownWriter) Paragraph(text string) {
	w.buf.WriteString(strings.TrimSpace(text))
	w.buf.WriteString("\n\n")
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.buf, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

// Table writes a pipe table. Nothing is written when rows is empty.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.tableRow(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.tableRow(sep)
	for _, row := range rows {
		w.tableRow(row)
	}
	w.buf.WriteString("\n")
}

func (w *MarkdownWriter) tableRow(cells []string) {
	w.buf.WriteString("|")
	for _, c := range cells {
		fmt.Fprintf(&w.buf, " %s |", strings.ReplaceAll(c, "|", `\|`))
	}
	w.buf.WriteString("\n")
}

// BulletList writes an unordered list.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		fmt.Fprintf(&w.buf, "- %s\n", item)
	}
	w.buf.WriteString("\n")
}

// Bytes returns the document with a single trailing newline.
func (w *MarkdownWriter) Bytes() []byte {
	return append(bytes.TrimRight(w.buf.Bytes(), "\n"), '\n')
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription collapses whitespace so text fits in a table cell.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

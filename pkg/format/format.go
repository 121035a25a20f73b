// Package format lays out generated SQL for display.
//
// The generator emits one clause per line. Default keeps that shape,
// Pretty additionally puts every select item, filter fragment and
// grouping or ordering key on its own indented line, and Compact folds the
// query onto a single line. Quoted identifiers and string literals are
// never touched.
package format

import (
	"fmt"
	"strings"
)

// Style selects a layout.
type Style string

// Layout styles.
const (
	Default Style = "default"
	Pretty  Style = "pretty"
	Compact Style = "compact"
)

// Styles lists the valid styles.
var Styles = []Style{Default, Pretty, Compact}

// ParseStyle converts a style name. The empty string is Default.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", Default:
		return Default, nil
	case Pretty:
		return Pretty, nil
	case Compact:
		return Compact, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: default, pretty, compact)", s)
}

// Format lays out sql in the given style.
func Format(sql string, style Style) string {
	switch style {
	case Pretty:
		return pretty(sql)
	case Compact:
		return compact(sql)
	default:
		return strings.TrimSpace(sql)
	}
}

// clauses are the line prefixes whose items Pretty breaks out.
var clauses = []string{"SELECT ", "GROUP BY ", "ORDER BY "}

func pretty(sql string) string {
	var w lineWriter
	for _, line := range splitLines(strings.TrimSpace(sql)) {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, ")"):
			w.close(line)
		case strings.HasSuffix(line, "("):
			w.open(line)
		case strings.HasPrefix(line, "WHERE "):
			w.block("WHERE", splitTopLevel(strings.TrimPrefix(line, "WHERE "), " AND "), "", "AND ")
		default:
			writeClause(&w, line)
		}
	}
	return w.String()
}

// writeClause writes a clause line, breaking list clauses into one item
// per line.
func writeClause(w *lineWriter, line string) {
	for _, kw := range clauses {
		if rest, ok := strings.CutPrefix(line, kw); ok {
			w.block(strings.TrimSpace(kw), splitTopLevel(rest, ", "), ",", "")
			return
		}
	}
	w.line(line)
}

func compact(sql string) string {
	out := collapseSpace(strings.TrimSpace(sql))
	out = replaceOutsideQuotes(out, "( ", "(")
	return replaceOutsideQuotes(out, " )", ")")
}

package format

import "strings"

const indentSize = 2

// lineWriter collects output lines at a nesting depth.
type lineWriter struct {
	lines []string
	depth int
}

// line appends s at the current depth.
func (w *lineWriter) line(s string) {
	w.lines = append(w.lines, strings.Repeat(" ", w.depth*indentSize)+s)
}

// block writes head, then items one per line one level deeper. Every item
// but the last is followed by sep; a non-empty lead prefixes every item but
// the first.
func (w *lineWriter) block(head string, items []string, sep, lead string) {
	w.line(head)
	w.depth++
	for i, item := range items {
		if i > 0 {
			item = lead + item
		}
		if i < len(items)-1 {
			item += sep
		}
		w.line(item)
	}
	w.depth--
}

func (w *lineWriter) open(s string) {
	w.line(s)
	w.depth++
}

func (w *lineWriter) close(s string) {
	if w.depth > 0 {
		w.depth--
	}
	w.line(s)
}

func (w *lineWriter) String() string {
	return strings.Join(w.lines, "\n")
}

package format

import "strings"

// scanner walks SQL text tracking quoted regions and parenthesis depth.
type scanner struct {
	quote byte // active quote character, 0 outside quotes
	depth int
}

// step consumes s[i] and reports whether it lies outside any quote.
func (sc *scanner) step(s string, i int) bool {
	c := s[i]
	if sc.quote != 0 {
		if c == sc.quote {
			sc.quote = 0
		}
		return false
	}
	switch c {
	case '\'', '"', '`':
		sc.quote = c
		return false
	case '(':
		sc.depth++
	case ')':
		if sc.depth > 0 {
			sc.depth--
		}
	}
	return true
}

// splitTopLevel splits s on sep where sep occurs outside quotes and
// parentheses.
func splitTopLevel(s, sep string) []string {
	var (
		parts []string
		sc    scanner
		start int
	)
	for i := 0; i < len(s); i++ {
		outside := sc.step(s, i)
		if outside && sc.depth == 0 && sc.quote == 0 && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			start = i + len(sep)
			i += len(sep) - 1
		}
	}
	return append(parts, s[start:])
}

// collapseSpace folds runs of whitespace outside quotes into one space.
func collapseSpace(s string) string {
	var (
		sb    strings.Builder
		sc    scanner
		space bool
	)
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		outside := sc.quote == 0 && (c == ' ' || c == '\n' || c == '\t' || c == '\r')
		if outside {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sc.step(s, i)
		sb.WriteByte(c)
	}
	return sb.String()
}

// splitLines splits s on newlines outside quotes, so string literals
// containing newlines stay whole.
func splitLines(s string) []string {
	var (
		lines []string
		sc    scanner
		start int
	)
	for i := 0; i < len(s); i++ {
		if sc.step(s, i) && s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// replaceOutsideQuotes replaces old with repl where old starts outside quotes.
func replaceOutsideQuotes(s, old, repl string) string {
	var (
		sb strings.Builder
		sc scanner
	)
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if sc.quote == 0 && strings.HasPrefix(s[i:], old) {
			for j := i; j < i+len(old); j++ {
				sc.step(s, j)
			}
			sb.WriteString(repl)
			i += len(old) - 1
			continue
		}
		sc.step(s, i)
		sb.WriteByte(s[i])
	}
	return sb.String()
}

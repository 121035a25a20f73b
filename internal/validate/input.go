// Package validate screens dplyr source before it reaches the transpiler
// and summarises pipelines without generating SQL.
//
// The checks here guard the command-line surfaces against hostile or
// runaway input. The transpiler never depends on them.
package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

// Default limits.
const (
	DefaultMaxInputLength   = 1 << 20
	DefaultMaxNestingDepth  = 50
	DefaultMaxFunctionCalls = 1000
)

// Limits bounds the size and shape of accepted input. Zero fields fall
// back to the defaults.
type Limits struct {
	MaxInputLength   int
	MaxNestingDepth  int
	MaxFunctionCalls int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxInputLength:   DefaultMaxInputLength,
		MaxNestingDepth:  DefaultMaxNestingDepth,
		MaxFunctionCalls: DefaultMaxFunctionCalls,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxInputLength <= 0 {
		l.MaxInputLength = d.MaxInputLength
	}
	if l.MaxNestingDepth <= 0 {
		l.MaxNestingDepth = d.MaxNestingDepth
	}
	if l.MaxFunctionCalls <= 0 {
		l.MaxFunctionCalls = d.MaxFunctionCalls
	}
	return l
}

// Input runs every input check in order and returns the first *Error.
func Input(src string, limits Limits) error {
	limits = limits.withDefaults()

	if strings.TrimSpace(src) == "" {
		return reject(EmptyInput, "Example: data %>% select(name, age)", "empty input provided")
	}
	if len(src) > limits.MaxInputLength {
		return reject(InputTooLong, "Split the pipeline or raise limits.max_input_length",
			"input length %d exceeds maximum %d", len(src), limits.MaxInputLength)
	}
	if err := Encoding(src); err != nil {
		return err
	}
	if depth := NestingDepth(src); depth > limits.MaxNestingDepth {
		return reject(NestingTooDeep, "Reduce nested function calls or parentheses",
			"excessive nesting depth: %d exceeds maximum %d", depth, limits.MaxNestingDepth)
	}
	if n := CountFunctionCalls(src); n > limits.MaxFunctionCalls {
		return reject(TooManyFunctionCalls, "Simplify the dplyr pipeline",
			"too many function calls: %d exceeds maximum %d", n, limits.MaxFunctionCalls)
	}
	if pattern, ok := SuspiciousPatterns(src); ok {
		return reject(SuspiciousPattern, "Remove suspicious characters or patterns",
			"input contains a potentially malicious pattern: %q", pattern)
	}
	if ExcessiveRepetitionIn(src) {
		return reject(ExcessiveRepetition, "Reduce repetitive patterns in input",
			"input contains excessive repetition patterns")
	}
	return Structure(src)
}

// NestingDepth returns the deepest bracket nesting of any kind.
func NestingDepth(src string) int {
	depth, deepest := 0, 0
	for _, r := range src {
		switch r {
		case '(', '[', '{':
			depth++
			deepest = max(deepest, depth)
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return deepest
}

// CountFunctionCalls counts identifiers directly followed by "(".
func CountFunctionCalls(src string) int {
	runes := []rune(src)
	count := 0
	for i := 0; i < len(runes); {
		if !unicode.IsLetter(runes[i]) && runes[i] != '_' {
			i++
			continue
		}
		for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '.') {
			i++
		}
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i < len(runes) && runes[i] == '(' {
			count++
		}
	}
	return count
}

var suspiciousPatterns = []string{
	"'; DROP",
	"'; DELETE",
	"'; INSERT",
	"'; UPDATE",
	"UNION SELECT",
	"OR 1=1",
	"AND 1=1",
	"<SCRIPT",
	"JAVASCRIPT:",
	"EVAL(",
	"EXEC(",
	"../",
	`..\`,
}

// ordinaryPunctuation lists the non-alphanumeric characters that make up
// normal dplyr code.
const ordinaryPunctuation = `()[]{},.;:_-+*/%><=!&|"'#`

// SuspiciousPatterns reports the first injection-like pattern found in src.
// Input where more than a tenth of the characters are unusual punctuation
// is reported too.
func SuspiciousPatterns(src string) (string, bool) {
	upper := strings.ToUpper(src)
	for _, p := range suspiciousPatterns {
		if strings.Contains(upper, p) {
			return p, true
		}
	}
	for _, r := range src {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return string(r), true
		}
	}

	unusual := 0
	for _, r := range src {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && !strings.ContainsRune(ordinaryPunctuation, r) {
			unusual++
		}
	}
	if unusual > len(src)/10 {
		return "unusual characters", true
	}
	return "", false
}

// ExcessiveRepetitionIn reports runs of more than 100 identical characters,
// or any 2 to 10 character substring occurring more than 20 times and
// covering at least half of the input.
func ExcessiveRepetitionIn(src string) bool {
	runes := []rune(src)

	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] != runes[i-1] {
			run = 1
			continue
		}
		run++
		if run > 100 {
			return true
		}
	}

	for size := 2; size <= 10; size++ {
		if size*20 > len(runes) {
			break
		}
		counts := make(map[string]int)
		for i := 0; i+size <= len(runes); i++ {
			key := string(runes[i : i+size])
			counts[key]++
			if n := counts[key]; n > 20 && n*size*2 >= len(runes) {
				return true
			}
		}
	}
	return false
}

// Encoding rejects invalid UTF-8, control characters other than tab and
// newlines, and characters that render invisibly or reorder text.
func Encoding(src string) error {
	if !utf8.ValidString(src) {
		return reject(InvalidEncoding, "Save the input as UTF-8", "input is not valid UTF-8")
	}
	for _, r := range src {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return reject(InvalidEncoding, "Remove control characters",
				"contains control character: U+%04X", r)
		}
		if isConfusing(r) {
			return reject(InvalidEncoding, "Replace invisible or direction-changing characters",
				"contains potentially confusing Unicode character: U+%04X", r)
		}
	}
	return nil
}

func isConfusing(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u00A0':
		return true
	}
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.LRO, bidi.RLO, bidi.LRE, bidi.RLE, bidi.PDF, bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return true
	}
	return false
}

// Structure checks that parentheses, brackets and braces outside string
// literals are balanced and that every string literal is closed.
func Structure(src string) error {
	var (
		counts  = map[rune]int{}
		quote   rune
		escaped bool
	)
	closers := map[rune]rune{')': '(', ']': '[', '}': '{'}
	names := map[rune]string{'(': "parenthesis", '[': "bracket", '{': "brace"}

	for _, r := range src {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		switch r {
		case '"', '\'':
			quote = r
		case '(', '[', '{':
			counts[r]++
		case ')', ']', '}':
			open := closers[r]
			counts[open]--
			if counts[open] < 0 {
				return reject(UnbalancedStructure, "Check "+names[open]+" balance",
					"unmatched closing %s %q", names[open], r)
			}
		}
	}

	for _, open := range []rune{'(', '[', '{'} {
		if n := counts[open]; n > 0 {
			return reject(UnbalancedStructure, "Add the missing closing "+names[open],
				"%d unclosed %s %q", n, names[open], open)
		}
	}
	if quote != 0 {
		return reject(UnbalancedStructure, "Add the missing closing quote",
			"unclosed string literal")
	}
	return nil
}

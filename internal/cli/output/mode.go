// Package output renders command results for terminals, markdown consumers
// and machines.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // text on a TTY, markdown otherwise
	ModeText     OutputMode = "text"     // styled terminal output
	ModeMarkdown OutputMode = "markdown" // plain markdown, no ANSI codes
	ModeJSON     OutputMode = "json"     // JSON envelopes
)

// ParseMode converts a mode name. The empty string is ModeAuto.
func ParseMode(s string) (OutputMode, error) {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return m, nil
	case "md":
		return ModeMarkdown, nil
	}
	return "", fmt.Errorf("unknown output mode %q (valid: auto, text, markdown, json)", s)
}

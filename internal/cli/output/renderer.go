package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	isTTY  bool
	mode   OutputMode
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(w, errW, IsTerminal(w), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{w: w, errW: errW, isTTY: isTTY, mode: mode}
	r.styles = NewStyles(w, isTTY && r.EffectiveMode() == ModeText)
	return r
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errW }

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

func (r *Renderer) errPrintln(a ...any) {
	_, _ = fmt.Fprintln(r.errW, a...)
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Success.Render("✓ " + msg))
		return
	}
	r.Println(msg)
}

// Error writes an error message to the error output.
func (r *Renderer) Error(msg string) {
	if r.EffectiveMode() == ModeText {
		r.errPrintln(r.styles.Error.Render("✗ " + msg))
		return
	}
	r.errPrintln("Error: " + msg)
}

// Warning writes a warning to the error output.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeText {
		r.errPrintln(r.styles.Warning.Render("! " + msg))
		return
	}
	r.errPrintln("Warning: " + msg)
}

// Muted writes de-emphasized text.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Muted.Render(msg))
		return
	}
	r.Println(msg)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Header.Render(text))
		return
	}
	r.Println(FormatHeader(level, text))
	r.Println()
}

// StatusLine writes "<mark> name  detail" for an item with a status of
// "success", "failed" or "skipped".
func (r *Renderer) StatusLine(name, status, detail string) {
	mark, style := "•", r.styles.Muted
	switch status {
	case "success":
		mark, style = "✓", r.styles.Success
	case "failed":
		mark, style = "✗", r.styles.Error
	case "skipped":
		mark, style = "-", r.styles.Warning
	}

	line := name
	if detail != "" {
		line += "  " + detail
	}
	if r.EffectiveMode() == ModeText {
		r.Println(style.Render(mark) + " " + line)
		return
	}
	r.Println("- " + mark + " " + line)
}

// SQL writes generated SQL. Markdown output is fenced.
func (r *Renderer) SQL(sql string) {
	sql = strings.TrimRight(sql, "\n")
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("```sql")
		r.Println(sql)
		r.Println("```")
		return
	}
	r.Println(sql)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", max(level, 1)) + " " + text
}

// FormatKeyValue returns a markdown list item.
func FormatKeyValue(key, value string) string {
	return "- **" + key + "**: " + value
}

package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Header  lipgloss.Style
	Keyword lipgloss.Style
}

// NewStyles builds styles bound to w. Without color the styles render
// plain text.
func NewStyles(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    r.NewStyle().Bold(true),
		Header:  r.NewStyle().Bold(true).Underline(true),
		Keyword: r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}

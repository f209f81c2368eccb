package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode. Under the Ascii
// profile they render as plain text.
type Styles struct {
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Bold:    r.NewStyle().Bold(true),
		Path:    r.NewStyle().Foreground(lipgloss.Color("39")),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

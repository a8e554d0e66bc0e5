package collector

import "github.com/charmbracelet/lipgloss"

// Palette colours.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorError   = lipgloss.Color("#F38BA8")
	colorBorder  = lipgloss.Color("#45475A")
)

// Styles holds the lipgloss styles of the form.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Total   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the form's default styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		Label:   lipgloss.NewStyle().Width(18).Foreground(colorMuted),
		Focused: lipgloss.NewStyle().Width(18).Bold(true).Foreground(colorPrimary),
		Header: lipgloss.NewStyle().Bold(true).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colorBorder),
		Cell:    lipgloss.NewStyle().PaddingRight(1),
		Total:   lipgloss.NewStyle().Bold(true).MarginTop(1),
		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Error:   lipgloss.NewStyle().Foreground(colorError),
		Help:    lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}

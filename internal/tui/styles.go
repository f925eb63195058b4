package tui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Popover lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DD3FC")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label:   lipgloss.NewStyle().Width(labelWidth),
		Focused: lipgloss.NewStyle().Width(labelWidth).Bold(true).Foreground(lipgloss.Color("#FACC15")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
		Popover: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7DD3FC")).
			Padding(0, 1).
			Width(popoverWidth),
	}
}

// categoryStyle colors text with a category's swatch.
func categoryStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Parchment = lipgloss.Color("#F5EBDD")
	Bronze    = lipgloss.Color("#C08A3E")
	Ash       = lipgloss.Color("#6B7280")
	Ember     = lipgloss.Color("#EF4444")
	Olive     = lipgloss.Color("#10B981")
)

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Frame  lipgloss.Style
	Quote  lipgloss.Style
	Stale  lipgloss.Style
	Author lipgloss.Style
	Error  lipgloss.Style
	Notice lipgloss.Style
	Status lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the default theme.
func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Padding(1, 4),
		Quote: lipgloss.NewStyle().
			Foreground(Parchment).
			Bold(true),
		Stale: lipgloss.NewStyle().
			Foreground(Ash).
			Bold(true),
		Author: lipgloss.NewStyle().
			Foreground(Bronze).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(Ember).
			Bold(true),
		Notice: lipgloss.NewStyle().
			Foreground(Olive),
		Status: lipgloss.NewStyle().
			Foreground(Ash),
		Help: lipgloss.NewStyle().
			MarginTop(1),
	}
}

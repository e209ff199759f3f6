// Package themes defines the review screen color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusManual  lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

func build(primary, fg, muted, border, selectedFg, success, warning, manual, danger, info string) Theme {
	return Theme{
		Primary: lipgloss.Color(primary),
		Muted:   lipgloss.Color(muted),
		Border:  lipgloss.Color(border),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primary)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(primary)).
			Foreground(lipgloss.Color(selectedFg)).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(success)).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(warning)).Bold(true),
		StatusManual:  lipgloss.NewStyle().Foreground(lipgloss.Color(manual)).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color(danger)).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(info)).Bold(true),
	}
}

// Default is the default theme.
var Default = build("#3b82f6", "#fafafa", "#737373", "#404040", "#fafafa",
	"#10b981", "#f59e0b", "#a855f7", "#ef4444", "#06b6d4")

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build("#cba6f7", "#cdd6f4", "#6c7086", "#45475a", "#1e1e2e",
	"#a6e3a1", "#f9e2af", "#f5c2e7", "#f38ba8", "#89dceb")

// ByName returns a theme by name, falling back to Default.
func ByName(name string) Theme {
	if name == "catppuccin" {
		return CatppuccinMocha
	}
	return Default
}

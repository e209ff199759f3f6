// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/Veraticus/finsense/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#3B82F6")
	// SuccessColor marks auto-approved transactions and successful operations.
	SuccessColor = lipgloss.Color("#22C55E")
	// WarningColor marks transactions waiting for review.
	WarningColor = lipgloss.Color("#F59E0B")
	// ErrorColor marks failures.
	ErrorColor = lipgloss.Color("#EF4444")
	// ManualColor marks transactions routed to manual review.
	ManualColor = lipgloss.Color("#A855F7")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#06B6D4")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#6B7280")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
	InfoIcon    = "ℹ"
	ReviewIcon  = "●"
	ManualIcon  = "◆"
)

// StatusStyle returns the style used to render a status badge.
func StatusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusAutoApproved:
		return SuccessStyle
	case model.StatusNeedsReview:
		return WarningStyle
	case model.StatusManual:
		return lipgloss.NewStyle().Foreground(ManualColor)
	}
	return SubtleStyle
}

// StatusIcon returns the glyph shown before a status.
func StatusIcon(s model.Status) string {
	switch s {
	case model.StatusAutoApproved:
		return SuccessIcon
	case model.StatusNeedsReview:
		return ReviewIcon
	case model.StatusManual:
		return ManualIcon
	}
	return "?"
}

// FormatStatus renders a colored status badge.
func FormatStatus(s model.Status) string {
	return StatusStyle(s).Render(StatusIcon(s) + " " + string(s))
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

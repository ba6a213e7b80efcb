package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

// HeaderStyle is used for section titles in text output.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// KeyStyle highlights issue keys.
var KeyStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta)

// SuccessStyle marks completed work.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// FailureStyle marks per-item failures.
var FailureStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// SkippedStyle marks items left untouched.
var SkippedStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// ErrorStyle renders the fatal error line on stderr.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// HelpStyle is used for hints and dry-run notes.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

var enabled = true

// SetEnabled turns styling on or off. Disabled styling renders plain text.
func SetEnabled(on bool) { enabled = on }

// Render applies style to s unless styling is disabled.
func Render(style lipgloss.Style, s string) string {
	if !enabled {
		return s
	}
	return style.Render(s)
}

// OutcomeStyle returns the style for a bulk outcome status.
func OutcomeStyle(status string) lipgloss.Style {
	switch status {
	case "succeeded":
		return SuccessStyle
	case "failed":
		return FailureStyle
	case "skipped":
		return SkippedStyle
	default:
		return HelpStyle
	}
}

// StatusStyle returns a color-coded style for a Jira status category key.
func StatusStyle(category string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch category {
	case "new":
		return base.Foreground(ColorBlue)
	case "indeterminate":
		return base.Foreground(ColorYellow)
	case "done":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for a Jira priority name.
func PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch strings.ToLower(priority) {
	case "highest", "blocker", "critical":
		return base.Foreground(ColorRed)
	case "high", "major":
		return base.Foreground(ColorOrange)
	case "medium":
		return base.Foreground(ColorYellow)
	case "low", "minor":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

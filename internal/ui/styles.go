package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep completed tasks readable on light terminals.
var (
	accent  = lipgloss.AdaptiveColor{Light: "162", Dark: "205"}
	muted   = lipgloss.AdaptiveColor{Light: "246", Dark: "241"}
	body    = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	good    = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	bad     = lipgloss.AdaptiveColor{Light: "124", Dark: "160"}
	caution = lipgloss.AdaptiveColor{Light: "166", Dark: "214"}
	hint    = lipgloss.AdaptiveColor{Light: "31", Dark: "87"}
)

var (
	StyleTitle   = lipgloss.NewStyle().Foreground(body).Bold(true)
	StyleText    = lipgloss.NewStyle().Foreground(body)
	StyleSubtle  = lipgloss.NewStyle().Foreground(muted)
	StylePrimary = lipgloss.NewStyle().Foreground(accent)
	StyleSuccess = lipgloss.NewStyle().Foreground(good)
	StyleError   = lipgloss.NewStyle().Foreground(bad)
	StyleWarning = lipgloss.NewStyle().Foreground(caution)

	// StyleHeader is the plan goal line.
	StyleHeader = lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1)
	// StyleOverviewBox frames the strategy summary.
	StyleOverviewBox = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(muted).
				Padding(0, 1)
	StyleTip       = lipgloss.NewStyle().Foreground(hint).Italic(true)
	StyleCompleted = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	StyleCursor    = lipgloss.NewStyle().Foreground(accent).Bold(true)
)

// Icon renders a single status glyph.
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

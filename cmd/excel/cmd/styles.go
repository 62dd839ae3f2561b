package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	ColorValue   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

// Tree and report styles
var (
	NodeStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorValue)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

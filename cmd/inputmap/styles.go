package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#3b82f6")
	mutedColor   = lipgloss.Color("#94a3b8")
	warningColor = lipgloss.Color("#f59e0b")
	errorColor   = lipgloss.Color("#ef4444")
	successColor = lipgloss.Color("#10b981")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(12)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// field renders one "name value" row.
func field(name, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(name), value)
}

// swatch renders a hex colour as a coloured block followed by its value.
func swatch(hex string) string {
	if hex == "" {
		return mutedStyle.Render("(default)")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " " + hex
}

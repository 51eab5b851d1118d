package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/calburn/internal/benchmark"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("86")  // Cyan
	colorSecondary = lipgloss.Color("240") // Gray
	colorSuccess   = lipgloss.Color("82")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
	colorMuted     = lipgloss.Color("245") // Light gray
	colorYou       = lipgloss.Color("40")  // Lime green
	colorBenchmark = lipgloss.Color("202") // Orange red
)

// Styles
var (
	// Title bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Section headers
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	// Form rows
	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	boundsStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Values
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	kcalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1)

	// Error
	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	youBarStyle       = lipgloss.NewStyle().Foreground(colorYou)
	benchmarkBarStyle = lipgloss.NewStyle().Foreground(colorBenchmark)
)

// categoryColor colors the BMI category label.
func categoryColor(c benchmark.Category) lipgloss.Color {
	if c == benchmark.Normal {
		return colorSuccess
	}
	return colorWarning
}

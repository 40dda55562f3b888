package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorTeal   = lipgloss.Color("#2EC4B6")
	colorViolet = lipgloss.Color("#9B5DE5")
	colorGreen  = lipgloss.Color("#50C878")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorAmber  = lipgloss.Color("#F5A623")
	colorWhite  = lipgloss.Color("#E6E6E6")
	colorSubtle = lipgloss.Color("#888888")
)

var (
	paneBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTeal).
			Padding(0, 1)

	statusBar = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	userStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	turnStyle = lipgloss.NewStyle().
			Foreground(colorViolet).
			Bold(true)

	toolStyle = lipgloss.NewStyle().
			Foreground(colorViolet)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

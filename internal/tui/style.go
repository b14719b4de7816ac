package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("212")
	mutedColor  = lipgloss.Color("241")
	errorColor  = lipgloss.Color("196")

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	sourceStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(errorColor).
			Padding(0, 1)

	pagerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	currentPageStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	filterPromptStyle = lipgloss.NewStyle().
				Foreground(accentColor)
)

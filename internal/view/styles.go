package view

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	dayStyle = lipgloss.NewStyle().
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	specialWeekStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

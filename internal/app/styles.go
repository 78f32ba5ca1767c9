package app

import "github.com/charmbracelet/lipgloss"

var (
	popupStyle = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

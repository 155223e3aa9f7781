package tui

import "github.com/charmbracelet/lipgloss"

var (
	subtle = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	menuStyle     = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	menuOpenStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1)
	dropdownStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	toolStyle     = lipgloss.NewStyle().Foreground(subtle).Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(subtle).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(subtle)
	errorStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9")).Padding(0, 2)
	promptStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	markStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func selectedPrefix() string {
	return markStyle.Render("[x] ")
}

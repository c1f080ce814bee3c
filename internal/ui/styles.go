package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title lipgloss.Style
	panel lipgloss.Style
	label lipgloss.Style
	dim   lipgloss.Style
	graph lipgloss.Style
	word  lipgloss.Style
	err   lipgloss.Style
}

func defaultStyles() styles {
	brand := lipgloss.AdaptiveColor{Light: "26", Dark: "81"}
	subtle := lipgloss.AdaptiveColor{Light: "245", Dark: "244"}
	border := lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(brand),
		panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		label: lipgloss.NewStyle().Bold(true).Foreground(brand),
		dim:   lipgloss.NewStyle().Foreground(subtle),
		graph: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		word:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

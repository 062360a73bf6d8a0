package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	state    lipgloss.Style
	button   lipgloss.Style
	selected lipgloss.Style
	disabled lipgloss.Style
	info     lipgloss.Style
	err      lipgloss.Style
	counts   lipgloss.Style
	panel    lipgloss.Style
	focused  lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle().Padding(0, 1)
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00")),
		state:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		button:   base.Border(lipgloss.NormalBorder()),
		selected: base.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("#D0F0C0")).Bold(true),
		disabled: base.Border(lipgloss.NormalBorder()).Foreground(lipgloss.Color("240")).BorderForeground(lipgloss.Color("238")),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D0F0C0")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		counts:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		focused:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FFFF00")),
	}
}

package dashboard

import (
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	label      lipgloss.Style
	value      lipgloss.Style
	warning    lipgloss.Style
	errorText  lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	taskID     lipgloss.Style
	meta       lipgloss.Style
	help       lipgloss.Style
	pane       lipgloss.Style
	paneFocus  lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	statuses   map[domain.TaskStatus]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		errorText:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		taskID:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		pane:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		paneFocus:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		statuses: map[domain.TaskStatus]lipgloss.Style{
			domain.TaskStatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
			domain.TaskStatusProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
			domain.TaskStatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			domain.TaskStatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

func (s styles) status(status domain.TaskStatus) lipgloss.Style {
	if style, ok := s.statuses[status]; ok {
		return style
	}
	return s.meta
}

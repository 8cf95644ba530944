package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/jarvis-chat/internal/theme"
)

type styles struct {
	pane        lipgloss.Style
	paneFocused lipgloss.Style
	title       lipgloss.Style
	section     lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	deleteMark  lipgloss.Style
	userRole    lipgloss.Style
	botRole     lipgloss.Style
	userText    lipgloss.Style
	botText     lipgloss.Style
	thinking    lipgloss.Style
	statusBar   lipgloss.Style
	prompt      lipgloss.Style
	help        lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	return styles{
		pane:        pane,
		paneFocused: pane.BorderForeground(p.Accent),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Padding(0, 1),
		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Muted).
			PaddingTop(1),
		row: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
		rowSelected: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Selection).
			Padding(0, 1),
		deleteMark: lipgloss.NewStyle().
			Foreground(p.Danger),
		userRole: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.UserBg).
			Padding(0, 1),
		botRole: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.BotBg).
			Padding(0, 1),
		userText: lipgloss.NewStyle().
			Foreground(p.Text).
			PaddingLeft(1),
		botText: lipgloss.NewStyle().
			Foreground(p.Text).
			PaddingLeft(1),
		thinking: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true).
			PaddingLeft(1),
		statusBar: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.BotBg).
			Padding(0, 1),
		prompt: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		help: lipgloss.NewStyle().
			Foreground(p.Muted),
	}
}

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// callbackMsg carries a loop callback back into Update.
type callbackMsg struct{ fn func() }

// teaLoop runs loop callbacks through the bubbletea program: timers become
// tea.Tick commands, blocking work becomes a command whose result message
// holds the continuation. Everything scheduled during one Update is handed
// to the runtime when that Update returns.
type teaLoop struct {
	cmds []tea.Cmd
}

func (l *teaLoop) After(d time.Duration, fn func()) {
	l.cmds = append(l.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return callbackMsg{fn: fn}
	}))
}

func (l *teaLoop) Go(work func() func()) {
	l.cmds = append(l.cmds, func() tea.Msg {
		return callbackMsg{fn: work()}
	})
}

func (l *teaLoop) flush() tea.Cmd {
	if len(l.cmds) == 0 {
		return nil
	}
	cmds := l.cmds
	l.cmds = nil
	return tea.Batch(cmds...)
}

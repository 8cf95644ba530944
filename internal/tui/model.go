// Package tui is the terminal front end: transcript, history sidebar and
// input line, all driven by one bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/jarvis-chat/internal/chat"
	"github.com/comigor/jarvis-chat/internal/history"
	"github.com/comigor/jarvis-chat/internal/logger"
	"github.com/comigor/jarvis-chat/internal/theme"
	"github.com/comigor/jarvis-chat/internal/transcript"
)

// Backend is everything the UI needs from the chat server.
type Backend interface {
	chat.Sender
	history.Client
}

// Options configures a Model.
type Options struct {
	Backend      Backend
	Prefs        theme.Store
	TypingSpeed  time.Duration
	SidebarWidth int
}

type focus int

const (
	focusInput focus = iota
	focusSidebar
)

type confirmPrompt struct {
	prompt string
	answer func(bool)
}

// Model is the bubbletea model of the chat client.
type Model struct {
	ctx  context.Context
	loop *teaLoop

	renderer *transcript.Renderer
	panel    *history.Panel
	ctrl     *chat.Controller
	theme    *theme.Controller
	styles   styles

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	focus        focus
	cursor       int
	confirm      *confirmPrompt
	width        int
	height       int
	sidebarWidth int

	dirty     bool
	pinBottom bool
}

// inputField adapts the text input to chat.Input.
type inputField struct{ ti *textinput.Model }

func (f inputField) Value() string     { return f.ti.Value() }
func (f inputField) SetValue(s string) { f.ti.SetValue(s) }

// New wires the transcript, history panel and submission controller.
func New(ctx context.Context, opts Options) *Model {
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = 32
	}

	ti := textinput.New()
	ti.Placeholder = "Ask me anything..."
	ti.CharLimit = 4000
	ti.Prompt = "› "
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:          ctx,
		loop:         &teaLoop{},
		theme:        theme.Load(opts.Prefs),
		viewport:     viewport.New(80, 20),
		input:        ti,
		spinner:      sp,
		width:        80 + opts.SidebarWidth,
		height:       24,
		sidebarWidth: opts.SidebarWidth,
		dirty:        true,
	}
	m.styles = newStyles(m.theme.Palette())

	m.renderer = transcript.New(m.loop, opts.TypingSpeed)
	m.renderer.Subscribe(func(e transcript.Event) {
		m.dirty = true
		if e.Kind == transcript.EventScrolled {
			m.pinBottom = true
		}
	})

	m.panel = history.NewPanel(ctx, opts.Backend, m.loop, m, m.renderer)
	m.ctrl = chat.New(m.renderer, opts.Backend, m.panel, m.loop, inputField{ti: &m.input})
	m.panel.SetResubmit(func(text string) {
		m.focus = focusInput
		m.input.Focus()
		m.ctrl.Resubmit(m.ctx, text)
	})
	m.panel.OnChange(m.clampCursor)

	m.layout()
	return m
}

// Confirm shows prompt in the status bar until the user answers y or n.
func (m *Model) Confirm(prompt string, answer func(bool)) {
	m.confirm = &confirmPrompt{prompt: prompt, answer: answer}
}

func (m *Model) Init() tea.Cmd {
	m.panel.Refresh()
	return tea.Batch(m.spinner.Tick, m.loop.flush())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case callbackMsg:
		if msg.fn != nil {
			msg.fn()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.InFlight() > 0 {
			m.dirty = true
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	m.sync()
	cmds = append(cmds, m.loop.flush())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.confirm != nil {
		c := m.confirm
		switch msg.String() {
		case "y", "Y":
			m.confirm = nil
			c.answer(true)
		case "n", "N", "esc":
			m.confirm = nil
			c.answer(false)
		case "ctrl+c":
			return nil, true
		}
		return nil, false
	}

	switch msg.String() {
	case "ctrl+c":
		return nil, true
	case "ctrl+t":
		next := m.theme.Toggle()
		logger.L.Info("theme toggled", "theme", next)
		m.styles = newStyles(m.theme.Palette())
		m.dirty = true
		return nil, false
	case "ctrl+x":
		m.panel.ClearAll()
		return nil, false
	case "ctrl+r":
		m.panel.Refresh()
		return nil, false
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, false
	case "tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
			m.clampCursor()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return nil, false
	}

	if m.focus == focusSidebar {
		m.handleSidebarKey(msg)
		return nil, false
	}

	if msg.Type == tea.KeyEnter {
		m.ctrl.Submit(m.ctx)
		return nil, false
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd, false
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "enter":
		if row, ok := m.selectedRow(); ok {
			_ = m.panel.Click(row, history.TargetRow)
		}
	case "d", "x", "delete":
		if row, ok := m.selectedRow(); ok {
			_ = m.panel.Click(row, history.TargetDelete)
		}
	}
}

// sync pushes transcript changes into the viewport.
func (m *Model) sync() {
	if !m.dirty {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if m.pinBottom {
		m.viewport.GotoBottom()
	}
	m.dirty, m.pinBottom = false, false
}

func (m *Model) layout() {
	chatWidth := max(m.width-m.sidebarWidth, 20)
	m.viewport.Width = chatWidth - 2
	m.viewport.Height = max(m.height-4, 3)
	m.input.Width = max(m.width-4, 10)
	m.dirty = true
	m.sync()
}

func (m *Model) renderTranscript() string {
	width := max(m.viewport.Width-2, 10)
	var b strings.Builder
	for _, msg := range m.renderer.Messages() {
		var role, body string
		switch {
		case msg.Placeholder():
			role = m.styles.botRole.Render("Jarvis")
			body = m.styles.thinking.Width(width).Render(msg.Text() + " " + m.spinner.View())
		case msg.Role == transcript.RoleUser:
			role = m.styles.userRole.Render("You")
			body = m.styles.userText.Width(width).Render(msg.Text())
		default:
			role = m.styles.botRole.Render("Jarvis")
			body = m.styles.botText.Width(width).Render(msg.Text())
		}
		b.WriteString(role)
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) statusLine() string {
	if m.confirm != nil {
		return m.styles.statusBar.Width(m.width).Render(m.confirm.prompt + " [y/n]")
	}
	left := fmt.Sprintf("%s %s (ctrl+t)", m.theme.Icon(), m.theme.Label())
	if n := m.ctrl.InFlight(); n > 0 {
		left += fmt.Sprintf(" · %d waiting", n)
	}
	help := "enter send · tab history · d delete · ctrl+x clear · ctrl+c quit"
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(help)-2, 1)
	return m.styles.statusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + help)
}

func (m *Model) View() string {
	chatStyle := m.styles.pane
	if m.focus == focusInput {
		chatStyle = m.styles.paneFocused
	}
	chatPane := chatStyle.Render(m.viewport.View())
	sidebar := m.renderSidebar(m.sidebarWidth, lipgloss.Height(chatPane))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chatPane),
		m.statusLine(),
		m.styles.prompt.Render(m.input.View()),
	)
}

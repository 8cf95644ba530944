package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/comigor/jarvis-chat/internal/history"
)

// rows flattens the sections into the list the cursor moves over.
func (m *Model) rows() []history.Row {
	var out []history.Row
	for _, sec := range m.panel.Sections() {
		out = append(out, sec.Rows...)
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectedRow() (history.Row, bool) {
	rows := m.rows()
	if len(rows) == 0 {
		return history.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) renderSidebar(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("History"))
	b.WriteString("\n")

	inner := max(width-4, 4)
	idx := 0
	for _, sec := range m.panel.Sections() {
		b.WriteString(m.styles.section.Render(sec.Header))
		b.WriteString("\n")
		for _, row := range sec.Rows {
			label := runewidth.Truncate(strings.ReplaceAll(row.Label, "\n", " "), inner-2, "…")
			label = runewidth.FillRight(label, inner-2)
			line := label + " " + m.styles.deleteMark.Render("✕")
			if m.focus == focusSidebar && idx == m.cursor {
				b.WriteString(m.styles.rowSelected.Render(line))
			} else {
				b.WriteString(m.styles.row.Render(line))
			}
			b.WriteString("\n")
			idx++
		}
	}
	if idx == 0 {
		b.WriteString(m.styles.help.Render(" no history yet"))
		b.WriteString("\n")
	}

	style := m.styles.pane
	if m.focus == focusSidebar {
		style = m.styles.paneFocused
	}
	return style.Width(width - 2).Height(height - 2).Render(strings.TrimRight(b.String(), "\n"))
}

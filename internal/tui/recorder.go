package tui

import (
	"fmt"
	"strings"

	"takes-cli/internal/format"
	"takes-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) updateRecorder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		m.view = viewBrowser
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.quit()

	case " ":
		wasRecording := m.sess.Take().Recording()
		if err := m.sess.Toggle(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		if !wasRecording {
			return m, recordTick()
		}
		return m, nil

	case "+", "p":
		return m.mark(model.ValuePlus)
	case "-", "m":
		return m.mark(model.ValueMinus)
	case "~", "w":
		return m.mark(model.ValueWave)

	case "left", "h":
		m.sess.CursorPrev()
		return m, nil
	case "right", "l":
		m.sess.CursorNext()
		return m, nil

	case "n":
		if err := m.sess.NextSection(); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case "c":
		if m.sess.AtSentinel() {
			return m, nil
		}
		note := m.sess.Take().Entries[m.sess.Cursor()].Note
		return m, m.openInput(inputNote, "Note", note)

	case "d":
		if m.sess.AtSentinel() {
			return m, nil
		}
		if err := m.sess.DeleteEntry(m.sess.Cursor()); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case "esc":
		if err := m.finalizeSession(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.view = viewSummary
		return m, nil
	}

	return m, nil
}

func (m appModel) mark(v model.EntryValue) (tea.Model, tea.Cmd) {
	if err := m.sess.Select(v); err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func valueGlyph(v model.EntryValue) string {
	switch v {
	case model.ValuePlus:
		return lipgloss.NewStyle().Foreground(colorPlus).Bold(true).Render("+")
	case model.ValueMinus:
		return lipgloss.NewStyle().Foreground(colorMinus).Bold(true).Render("-")
	default:
		return lipgloss.NewStyle().Foreground(colorWave).Bold(true).Render("~")
	}
}

func (m appModel) viewRecorder() string {
	tk := m.sess.Take()

	clock := format.Clock(m.sess.Elapsed().Milliseconds())
	var state string
	switch {
	case tk.Recording():
		state = lipgloss.NewStyle().Foreground(colorRecording).Bold(true).Render("● " + clock)
	case tk.Status == model.StatusPaused:
		state = lipgloss.NewStyle().Bold(true).Render("⏸ " + clock)
	default:
		state = styleMuted().Render("idle " + clock)
	}
	head := fmt.Sprintf("%s   %s   %s", tk.Name, state,
		styleMuted().Render(fmt.Sprintf("section %d", tk.CurrentSection)))

	visible := m.height - 9
	if visible < 4 {
		visible = 4
	}

	// Rows are entries plus the trailing "new entry" sentinel; scroll a
	// window that keeps the cursor in view.
	total := len(tk.Entries) + 1
	start := 0
	if m.sess.Cursor() >= visible {
		start = m.sess.Cursor() - visible + 1
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n\n")
	for i := start; i < total && i < start+visible; i++ {
		marker := "  "
		if i == m.sess.Cursor() {
			marker = lipgloss.NewStyle().Foreground(colorAccent).Render("→ ")
		}
		if i == len(tk.Entries) {
			b.WriteString(marker + styleMuted().Render("(new entry)") + "\n")
			continue
		}
		e := tk.Entries[i]
		line := fmt.Sprintf("%s[%s] %s", marker, format.Clock(e.Timestamp), valueGlyph(e.Value))
		if e.Section != tk.CurrentSection {
			line += styleMuted().Render(fmt.Sprintf("  s%d", e.Section))
		}
		if e.Note != "" {
			line += "  " + styleMuted().Render(e.Note)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

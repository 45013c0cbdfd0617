package tui

import (
	"os"

	"takes-cli/internal/export"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		m.view = viewBrowser
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.quit()

	case "enter", " ":
		// Straight into the recorder; paused and idle takes pick up where
		// they left off.
		m.status = ""
		m.view = viewRecorder
		if m.sess.Take().Recording() {
			return m, recordTick()
		}
		return m, nil

	case "e":
		m.exportSummaryPDF()
		return m, nil

	case "esc", "backspace":
		m.sess = nil
		m.status = ""
		m.view = viewBrowser
		m.reload()
		return m, nil
	}
	return m, nil
}

func (m *appModel) exportSummaryPDF() {
	tk := m.sess.Take()
	name := export.SafeName(tk.Name) + ".pdf"
	f, err := os.Create(name)
	if err != nil {
		m.status = err.Error()
		return
	}
	err = export.WriteTakeReport(f, tk)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "report written to " + name
}

func (m appModel) viewSummary() string {
	w := m.width - 4
	if w > 100 {
		w = 100
	}
	return renderMarkdown(export.ReportMarkdown(m.sess.Take()), w)
}

package tui

import (
	"os"
	"strings"
	"time"

	"takes-cli/internal/export"
	"takes-cli/internal/model"
	"takes-cli/internal/session"
	"takes-cli/internal/store"
	"takes-cli/internal/tree"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewBrowser view = iota
	viewSummary
	viewRecorder
)

type inputMode int

const (
	inputNone inputMode = iota
	inputNewTake
	inputNewFolder
	inputRename
	inputNote
)

type recordTickMsg struct{}

type appModel struct {
	store store.Store
	db    *store.DB

	width  int
	height int

	view view

	browser list.Model
	// path is the folder id stack; empty means root.
	path []string

	sess *session.Session

	input         textinput.Model
	inputMode     inputMode
	renameTarget  string
	pendingDelete string

	status string
}

func newAppModel(s store.Store) (appModel, error) {
	db, err := s.Load()
	if err != nil {
		return appModel{}, err
	}

	m := appModel{
		store: s,
		db:    db,
		view:  viewBrowser,
	}
	m.browser = newList(nil)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	m.input = ti

	m.refreshBrowser()
	return m, nil
}

func (m appModel) Init() tea.Cmd { return nil }

func (m *appModel) manager() tree.Manager {
	return tree.Manager{Store: m.store}
}

// reload re-reads the collection. Session mutations write through their own
// store handle, so the browser's copy goes stale after recording.
func (m *appModel) reload() {
	db, err := m.store.Load()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.db = db

	// Drop path segments whose folders vanished under us.
	kept := m.path[:0]
	for _, id := range m.path {
		if it, ok := db.FindItem(id); ok && it.IsFolder() {
			kept = append(kept, id)
		} else {
			break
		}
	}
	m.path = kept
	m.refreshBrowser()
}

func recordTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return recordTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case recordTickMsg:
		// Re-arm only while the recorder shows a running timer; otherwise the
		// loop winds down.
		if m.view == viewRecorder && m.sess != nil && m.sess.Take().Recording() {
			return m, recordTick()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		if m.pendingDelete != "" {
			return m.updateConfirmDelete(msg)
		}
		switch m.view {
		case viewBrowser:
			return m.updateBrowser(msg)
		case viewSummary:
			return m.updateSummary(msg)
		case viewRecorder:
			return m.updateRecorder(msg)
		}
	}

	if m.view == viewBrowser {
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd
	}
	return m, nil
}

// quit tears the model down. An open session is finalized synchronously so a
// running timer is never lost to an exit.
func (m appModel) quit() (tea.Model, tea.Cmd) {
	_ = m.finalizeSession()
	return m, tea.Quit
}

// finalizeSession folds an open timer segment before the session view goes
// away. A session that never left idle has nothing to fold; finalizing it
// anyway would flip the take to paused and bump its updated stamp.
func (m *appModel) finalizeSession() error {
	if m.sess == nil || m.sess.Take().Status == model.StatusIdle {
		return nil
	}
	return m.sess.Finalize()
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.browser.SetSize(w, h)
	m.input.Width = w - 4
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.inputMode = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.Blur()
		m.commitInput(mode, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) commitInput(mode inputMode, value string) {
	switch mode {
	case inputNewTake, inputNewFolder:
		typ := model.TypeTake
		if mode == inputNewFolder {
			typ = model.TypeFolder
		}
		if _, err := m.manager().Create(value, typ, m.currentFolderID()); err != nil {
			m.status = err.Error()
			return
		}
	case inputRename:
		if err := m.manager().Rename(m.renameTarget, value); err != nil {
			m.status = err.Error()
			return
		}
	case inputNote:
		if m.sess == nil || m.sess.AtSentinel() {
			return
		}
		if err := m.sess.SetEntryNote(m.sess.Cursor(), value); err != nil {
			m.status = err.Error()
		}
		return
	}
	m.reload()
}

func (m *appModel) openInput(mode inputMode, placeholder, initial string) tea.Cmd {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.manager().Delete(m.pendingDelete); err != nil {
			m.status = err.Error()
		}
		m.pendingDelete = ""
		m.reload()
	case "n", "N", "esc", "ctrl+g":
		m.pendingDelete = ""
	}
	return m, nil
}

func (m appModel) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.browser.FilterState() == list.Filtering
	if !filtering {
		switch msg.String() {
		case "q":
			return m.quit()
		case "esc", "backspace":
			if len(m.path) > 0 {
				m.path = m.path[:len(m.path)-1]
				m.status = ""
				m.refreshBrowser()
				return m, nil
			}
		case "enter":
			if r, ok := m.browser.SelectedItem().(browserRow); ok {
				if r.item.IsFolder() {
					m.path = append(m.path, r.item.ID)
					m.status = ""
					m.refreshBrowser()
					return m, nil
				}
				sess, err := session.Open(m.store, r.item.ID)
				if err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.sess = sess
				m.status = ""
				m.view = viewSummary
				return m, nil
			}
		case "a":
			return m, m.openInput(inputNewTake, "Take name", "")
		case "f":
			return m, m.openInput(inputNewFolder, "Folder name", "")
		case "r":
			if r, ok := m.browser.SelectedItem().(browserRow); ok {
				m.renameTarget = r.item.ID
				return m, m.openInput(inputRename, "New name", r.item.Name)
			}
		case "x":
			if r, ok := m.browser.SelectedItem().(browserRow); ok {
				m.pendingDelete = r.item.ID
			}
			return m, nil
		case "b":
			m.writeBackup()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

func (m *appModel) writeBackup() {
	name := export.BackupFileName(time.Now())
	f, err := os.Create(name)
	if err != nil {
		m.status = err.Error()
		return
	}
	err = export.WriteBackup(f, m.db.Items)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "backup written to " + name
}

func (m appModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.breadcrumb())

	var body, footer string
	switch m.view {
	case viewBrowser:
		body = m.browser.View()
		footer = "enter: open  a: new take  f: new folder  r: rename  x: delete  b: backup  esc: up  q: quit"
	case viewSummary:
		body = m.viewSummary()
		footer = "enter: record  e: export pdf  esc: back  q: quit"
	case viewRecorder:
		body = m.viewRecorder()
		footer = "space: start/pause  +/-/~: mark  ←/→: cursor  n: section  c: note  d: delete  esc: done"
	}

	if m.pendingDelete != "" {
		name := m.pendingDelete
		if it, ok := m.db.FindItem(m.pendingDelete); ok {
			name = it.Name
		}
		footer = "delete \"" + name + "\" and everything inside it? y/n"
	}

	lines := []string{header, "", body, ""}
	if m.inputMode != inputNone {
		lines = append(lines, m.input.View())
	}
	if m.status != "" {
		lines = append(lines, styleMuted().Render(m.status))
	}
	lines = append(lines, styleMuted().Render(footer))
	return strings.Join(lines, "\n")
}

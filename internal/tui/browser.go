package tui

import (
	"fmt"
	"strings"
	"time"

	"takes-cli/internal/format"
	"takes-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type browserRow struct {
	item  model.Item
	label string
}

func (r browserRow) Title() string       { return r.label }
func (r browserRow) FilterValue() string { return strings.TrimSpace(r.item.Name) }

func newList(items []list.Item) list.Model {
	l := list.New(items, newCompactItemDelegate(), 0, 0)
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func (m *appModel) currentFolderID() *string {
	if len(m.path) == 0 {
		return nil
	}
	return &m.path[len(m.path)-1]
}

// refreshBrowser rebuilds the list rows for the current folder, keeping the
// selection on the same item when it survived the refresh.
func (m *appModel) refreshBrowser() {
	curID := ""
	if r, ok := m.browser.SelectedItem().(browserRow); ok {
		curID = r.item.ID
	}

	children, err := m.manager().Children(m.currentFolderID())
	if err != nil {
		m.status = err.Error()
		return
	}

	var rows []list.Item
	for _, it := range children {
		rows = append(rows, browserRow{item: it, label: m.rowLabel(it)})
	}
	m.browser.SetItems(rows)

	if curID != "" {
		for i, r := range m.browser.Items() {
			if br, ok := r.(browserRow); ok && br.item.ID == curID {
				m.browser.Select(i)
				break
			}
		}
	}
}

func (m *appModel) rowLabel(it model.Item) string {
	if it.IsFolder() {
		n := 0
		for _, other := range m.db.Items {
			if other.ParentID != nil && *other.ParentID == it.ID {
				n++
			}
		}
		return fmt.Sprintf("▸ %s  %s", it.Name, styleMuted().Render(fmt.Sprintf("(%d)", n)))
	}

	meta := fmt.Sprintf("%s · %d entries · %s",
		format.Clock(it.TotalDuration), len(it.Entries),
		time.UnixMilli(it.UpdatedAt).Format("2006-01-02"))
	mark := " "
	if it.Recording() {
		mark = lipgloss.NewStyle().Foreground(colorRecording).Render("●")
	}
	return fmt.Sprintf("%s %s  %s", mark, it.Name, styleMuted().Render(meta))
}

// breadcrumb walks the path stack and joins folder names.
func (m *appModel) breadcrumb() string {
	parts := []string{"takes"}
	for _, id := range m.path {
		if it, ok := m.db.FindItem(id); ok {
			parts = append(parts, it.Name)
		}
	}
	return strings.Join(parts, " / ")
}

package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/table"
)

// handleKey routes keyboard input to the active overlay, the search box or
// the table.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
			return m, cmd
		}
		m.modal = modal
		return m, nil
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showLog {
		return m.handleLogKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, keys.Reload):
		cmd := tea.Batch(m.startLoad(), m.spinner.Tick)
		return m, cmd

	case key.Matches(msg, keys.ActivityLog):
		m.showLog = true
		return m, m.readLogCmd()

	case key.Matches(msg, keys.Escape):
		if m.table.Global != "" {
			m.search.SetValue("")
			m.table.SetGlobalFilter("")
			m.derive()
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.table.Global)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, keys.CycleFilter):
		m.table.CycleStatusFilter()
		m.cursor = 0
		m.derive()
		return m, nil

	case key.Matches(msg, keys.NextColumn):
		m.focusCol = (m.focusCol + 1) % len(table.Columns)
		return m, nil

	case key.Matches(msg, keys.PrevColumn):
		m.focusCol = (m.focusCol - 1 + len(table.Columns)) % len(table.Columns)
		return m, nil

	case key.Matches(msg, keys.ToggleSort):
		col := table.Columns[m.focusCol]
		if !col.Sortable() {
			cmd := m.pushToast(toastInfo, col.Title()+" column is not sortable")
			return m, cmd
		}
		m.table.ToggleSort(col)
		m.derive()
		return m, nil

	case key.Matches(msg, keys.PageSize):
		m.table.CyclePageSize()
		m.cursor = 0
		m.derive()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, keys.Export):
		cmd := m.exportCSV()
		return m, cmd

	case key.Matches(msg, keys.Print):
		cmd := m.printReport()
		return m, cmd

	case key.Matches(msg, keys.BulkApprove):
		cmd := m.confirmBulk(applications.StatusApproved)
		return m, cmd

	case key.Matches(msg, keys.BulkReject):
		cmd := m.confirmBulk(applications.StatusRejected)
		return m, cmd

	case key.Matches(msg, keys.SelectAll):
		m.table.ToggleSelectAll(m.view)
		m.derive()
		return m, nil

	case key.Matches(msg, keys.ClearSelection):
		m.table.ClearSelection()
		m.derive()
		return m, nil
	}

	return m.handleTableKey(msg)
}

// handleTableKey processes keys that act on the current page or row.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.PrevPage):
		m.table.PrevPage(m.view)
		m.cursor = 0
		m.derive()
		return m, nil

	case key.Matches(msg, keys.NextPage):
		m.table.NextPage(m.view)
		m.cursor = 0
		m.derive()
		return m, nil

	case key.Matches(msg, keys.FirstPage):
		m.table.GotoPage(0, m.view)
		m.cursor = 0
		m.derive()
		return m, nil

	case key.Matches(msg, keys.LastPage):
		m.table.GotoPage(m.view.PageCount-1, m.view)
		m.cursor = 0
		m.derive()
		return m, nil
	}

	rec, ok := m.currentRecord()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Select):
		m.table.ToggleSelected(rec.ID)
		m.derive()
	case key.Matches(msg, keys.Expand):
		m.table.ToggleExpanded(rec.ID)
	case key.Matches(msg, keys.OpenCV):
		cmd := m.openCV()
		return m, cmd
	case key.Matches(msg, keys.Approve):
		cmd := m.setStatus(applications.StatusApproved)
		return m, cmd
	case key.Matches(msg, keys.Reject):
		cmd := m.setStatus(applications.StatusRejected)
		return m, cmd
	case key.Matches(msg, keys.Reset):
		cmd := m.setStatus(applications.StatusPending)
		return m, cmd
	}
	return m, nil
}

// handleSearchKey edits the search box. The filter follows every keystroke;
// enter keeps it, esc clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.table.SetGlobalFilter("")
		m.cursor = 0
		m.derive()
		return m, nil
	case tea.KeyCtrlC:
		m.shutdown()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.table.Global {
		m.table.SetGlobalFilter(v)
		m.cursor = 0
		m.derive()
	}
	return m, cmd
}

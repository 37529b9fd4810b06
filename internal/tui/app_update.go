package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"
	"tally-cli/internal/publish"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reloadTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		// Don't pull the list out from under an open form.
		if m.mode != modeForm && m.storeChanged() {
			if err := m.reloadFromDisk(); err != nil {
				m.showMinibuffer("Reload failed: " + err.Error())
			} else {
				m.showMinibuffer("Reloaded (changed on disk)")
			}
		}
		return m, tickReload()

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeReport:
			return m.updateReport(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.mgr.Search())
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Add):
		return m, m.openForm(formAdd, 0, m.mgr.Draft())

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.mgr.StartEdit(it.ID); err != nil {
			m.showMinibuffer(err.Error())
			return m, nil
		}
		_, d, _ := m.mgr.Editing()
		return m, m.openForm(formEdit, it.ID, d)

	case key.Matches(msg, m.keys.Remove):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		removed, err := m.mgr.Remove(m.ctx, it.ID)
		if removed {
			m.afterWrite(err, fmt.Sprintf("Removed %s %d", m.schema().Noun, it.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.QtyUp), key.Matches(msg, m.keys.QtyDown):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		q := it.Quantity + 1
		if key.Matches(msg, m.keys.QtyDown) {
			q = it.Quantity - 1
		}
		changed, err := m.mgr.QuantityChange(m.ctx, it.ID, q)
		if !changed {
			m.showMinibuffer("Quantity must be at least 1")
			return m, nil
		}
		m.afterWrite(err, fmt.Sprintf("Quantity: %d", q))
		return m, nil

	case key.Matches(msg, m.keys.SortField):
		n := len(m.schema().Fields)
		m.sortIdx++
		if m.sortIdx >= n {
			m.sortIdx = -1
		}
		m.showMinibuffer("Sort by: " + m.sortLabel())
		return m, nil

	case key.Matches(msg, m.keys.SortDir):
		if m.sortDir == listmgr.Desc {
			m.sortDir = listmgr.Asc
		} else {
			m.sortDir = listmgr.Desc
		}
		m.showMinibuffer("Sort by: " + m.sortLabel())
		return m, nil

	case key.Matches(msg, m.keys.SortApply):
		field := m.sortField()
		if field == "" {
			m.showMinibuffer("Pick a sort field first (s)")
			return m, nil
		}
		err := m.mgr.SortApply(m.ctx, field, m.sortDir)
		var pe *listmgr.PersistError
		if err != nil && !errors.As(err, &pe) {
			m.showMinibuffer(err.Error())
			return m, nil
		}
		m.afterWrite(err, "Sorted by "+m.sortLabel())
		return m, nil

	case key.Matches(msg, m.keys.SortClear):
		m.mgr.ClearSort()
		m.sortIdx = -1
		m.sortDir = listmgr.Asc
		m.refresh()
		m.showMinibuffer("Sort cleared")
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		err := m.mgr.SortReset(m.ctx)
		m.sortIdx = -1
		m.sortDir = listmgr.Asc
		m.afterWrite(err, "Restored the default list")
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.mode = modeConfirm
		m.confirmFocus = confirmFocusCancel
		return m, nil

	case key.Matches(msg, m.keys.Export):
		d := &listmgr.DirDownloader{Dir: m.exportDir}
		if err := m.mgr.Export(m.ctx, d); err != nil {
			m.showMinibuffer("Export failed: " + err.Error())
			return m, nil
		}
		m.showMinibuffer("Exported " + d.Written)
		return m, nil

	case key.Matches(msg, m.keys.Report):
		md, err := publish.RenderListMarkdown(m.schema(), m.mgr.Items(), publish.RenderOptions{
			Workspace: m.workspace,
			Now:       time.Now(),
		})
		if err != nil {
			m.showMinibuffer(err.Error())
			return m, nil
		}
		m.mode = modeReport
		m.resize()
		m.report.SetContent(renderMarkdown(md, m.report.Width))
		m.report.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if err := m.reloadFromDisk(); err != nil {
			m.showMinibuffer("Reload failed: " + err.Error())
		} else {
			m.showMinibuffer("Reloaded")
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// afterWrite refreshes the table after a mutation. A failed save keeps the
// in-memory change, so only the message differs.
func (m *appModel) afterWrite(err error, ok string) {
	m.captureModTime()
	m.refresh()
	if err != nil {
		m.showMinibuffer("Not saved: " + err.Error())
		return
	}
	m.showMinibuffer(ok)
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.mgr.SetSearch("")
		m.refresh()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.mgr.SetSearch(m.search.Value())
	m.refresh()
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.form == formEdit {
			m.mgr.CancelEdit()
		} else {
			m.mgr.ClearDraft()
		}
		m.closeForm()
		return m, nil
	case "tab", "down":
		return m, m.focusInput(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusInput(m.focus - 1)
	case "enter":
		return m.submitForm()
	}
	if m.focus < 0 || m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	name := m.schema().Fields[m.focus].Name
	value := m.inputs[m.focus].Value()
	if m.form == formEdit {
		_ = m.mgr.ChangeEditField(name, value)
	} else {
		_ = m.mgr.SetDraftField(name, value)
	}
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	var (
		err error
		id  = m.formID
	)
	if m.form == formEdit {
		err = m.mgr.SaveEdit(m.ctx, id)
	} else {
		var added model.Item
		added, err = m.mgr.Add(m.ctx)
		id = added.ID
	}

	var verr *listmgr.ValidationError
	if errors.As(err, &verr) {
		m.formErr = verr.Error()
		if fs := verr.Fields(); len(fs) > 0 {
			if i := m.fieldIndex(fs[0]); i >= 0 {
				return m, m.focusInput(i)
			}
		}
		return m, nil
	}
	var pe *listmgr.PersistError
	if err != nil && !errors.As(err, &pe) {
		m.formErr = err.Error()
		return m, nil
	}

	verb := "Added"
	if m.form == formEdit {
		verb = "Saved"
	}
	m.closeForm()
	m.afterWrite(err, fmt.Sprintf("%s %s %d", verb, m.schema().Noun, id))
	m.selectID(id)
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "n", "q":
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.finishClear(true)
	case "enter":
		return m.finishClear(m.confirmFocus == confirmFocusConfirm)
	}
	return m, nil
}

func (m appModel) finishClear(yes bool) (tea.Model, tea.Cmd) {
	m.mode = modeList
	cleared, err := m.mgr.BulkClear(m.ctx, listmgr.ConfirmFunc(func(string) bool { return yes }))
	if !cleared {
		return m, nil
	}
	m.afterWrite(err, "Cleared "+strings.ToLower(m.schema().Title))
	return m, nil
}

func (m appModel) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q", "r":
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m *appModel) sortLabel() string {
	field := m.sortField()
	if field == "" {
		return "none"
	}
	f, _ := m.schema().Field(field)
	return f.Label + " " + string(m.sortDir)
}

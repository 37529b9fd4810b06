package tui

import (
	"context"
	"time"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"
	"tally-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirm
	modeReport
)

type formKind int

const (
	formAdd formKind = iota
	formEdit
)

type reloadTickMsg struct{}

type appModel struct {
	ctx       context.Context
	mgr       *listmgr.Manager
	watch     store.ModTimer
	workspace string
	exportDir string

	width  int
	height int

	mode mode
	keys keyMap
	help help.Model

	table   table.Model
	visible []model.Item
	search  textinput.Model

	form    formKind
	formID  int
	inputs  []textinput.Model
	focus   int
	formErr string

	// sortIdx indexes the schema fields; -1 means no field is selected.
	sortIdx int
	sortDir listmgr.Direction

	confirmFocus confirmModalFocus
	report       viewport.Model

	minibufferText  string
	minibufferSetAt time.Time
	// lastModTime is the storage timestamp of the last load or own write.
	lastModTime time.Time
}

func newAppModel(opt Options) appModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 128

	m := appModel{
		ctx:       context.Background(),
		mgr:       opt.Manager,
		watch:     opt.Watch,
		workspace: opt.Workspace,
		exportDir: opt.ExportDir,
		width:     80,
		height:    24,
		keys:      defaultKeyMap(),
		help:      help.New(),
		search:    search,
		sortIdx:   -1,
		sortDir:   listmgr.Asc,
		report:    viewport.New(76, 16),
	}
	if field, dir := m.mgr.SortSelection(); field != "" {
		m.sortIdx = m.fieldIndex(field)
		m.sortDir = dir
	}
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	m.captureModTime()
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m *appModel) schema() *model.Schema { return m.mgr.Schema() }

func (m *appModel) fieldIndex(name string) int {
	for i, f := range m.schema().Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (m *appModel) sortField() string {
	fs := m.schema().Fields
	if m.sortIdx < 0 || m.sortIdx >= len(fs) {
		return ""
	}
	return fs[m.sortIdx].Name
}

// refresh rebuilds the visible rows from the manager, keeping the cursor in range.
func (m *appModel) refresh() {
	v := m.mgr.View()
	m.visible = v.Items
	s := m.schema()
	rows := make([]table.Row, 0, len(v.Items))
	for _, it := range v.Items {
		rows = append(rows, itemRow(s, it))
	}
	cur := m.table.Cursor()
	m.table.SetRows(rows)
	switch {
	case len(rows) == 0:
		m.table.SetCursor(0)
	case cur >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	case cur < 0:
		m.table.SetCursor(0)
	}
}

func (m *appModel) selected() (model.Item, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return model.Item{}, false
	}
	return m.visible[i], true
}

func (m *appModel) selectID(id int) {
	for i, it := range m.visible {
		if it.ID == id {
			m.table.SetCursor(i)
			return
		}
	}
}

// captureModTime records the storage timestamp so our own writes are not
// mistaken for external changes on the next tick.
func (m *appModel) captureModTime() {
	if m.watch == nil {
		return
	}
	if t, err := m.watch.ModTime(m.ctx, m.mgr.Key()); err == nil {
		m.lastModTime = t
	}
}

func (m *appModel) storeChanged() bool {
	if m.watch == nil {
		return false
	}
	t, err := m.watch.ModTime(m.ctx, m.mgr.Key())
	if err != nil {
		return false
	}
	return !t.Equal(m.lastModTime)
}

func (m *appModel) reloadFromDisk() error {
	if err := m.mgr.Reload(m.ctx); err != nil {
		return err
	}
	m.captureModTime()
	m.refresh()
	return nil
}

const minibufferAutoClearAfter = 4 * time.Second

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
}

func (m *appModel) openForm(kind formKind, id int, d model.Draft) tea.Cmd {
	m.mode = modeForm
	m.form = kind
	m.formID = id
	m.formErr = ""
	m.focus = 0
	fields := m.schema().Fields
	m.inputs = make([]textinput.Model, 0, len(fields))
	for _, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label
		in.CharLimit = 64
		in.SetValue(f.DraftValue(d))
		m.inputs = append(m.inputs, in)
	}
	return m.focusInput(0)
}

func (m *appModel) focusInput(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *appModel) closeForm() {
	m.mode = modeList
	m.inputs = nil
	m.formErr = ""
	m.formID = 0
}

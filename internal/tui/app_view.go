package tui

import (
	"fmt"
	"strings"

	"tally-cli/internal/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	idColWidth    = 5
	valueColWidth = 12
	// Title, search, summary, sort and minibuffer lines around the table.
	chromeLines = 6
)

func itemRow(s *model.Schema, it model.Item) table.Row {
	row := table.Row{fmt.Sprint(it.ID)}
	for _, f := range s.Fields {
		row = append(row, f.Display(it))
	}
	return append(row, model.FormatDecimal(s.Value(it)))
}

func (m *appModel) columns() []table.Column {
	s := m.schema()
	avail := m.width - idColWidth - valueColWidth - 2*(len(s.Fields)+2)
	each := 10
	if n := len(s.Fields); n > 0 && avail/n > each {
		each = avail / n
	}
	cols := []table.Column{{Title: "ID", Width: idColWidth}}
	for _, f := range s.Fields {
		cols = append(cols, table.Column{Title: f.Label, Width: each})
	}
	return append(cols, table.Column{Title: s.ValueLabel, Width: valueColWidth})
}

func tableStyles() table.Styles {
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(false)
	return st
}

func (m *appModel) tableHeight() int {
	helpLines := 1
	if m.help.ShowAll {
		for _, col := range m.keys.FullHelp() {
			helpLines = max(helpLines, len(col))
		}
	}
	h := m.height - chromeLines - helpLines
	if h < 3 {
		h = 3
	}
	return h
}

func (m *appModel) resize() {
	m.help.Width = m.width
	m.search.Width = max(10, m.width-4)
	m.table.SetColumns(m.columns())
	m.table.SetWidth(m.width)
	m.table.SetHeight(m.tableHeight())
	m.report.Width = max(20, m.width-4)
	m.report.Height = max(5, m.height-3)
}

func (m appModel) View() string {
	switch m.mode {
	case modeForm:
		return m.place(renderModalBox(m.width, m.formTitle(), m.formBody()))
	case modeConfirm:
		return m.place(renderConfirmModal(m.width, "Clear "+m.schema().Title, m.schema().ClearPrompt, "Clear", "Cancel", m.confirmFocus))
	case modeReport:
		header := styleTitle().Render("Report") + styleMuted().Render("  esc: back  ↑/↓: scroll")
		return header + "\n\n" + m.report.View()
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(m.searchLine())
	b.WriteString("\n")
	if len(m.visible) == 0 {
		b.WriteString(styleMuted().Render(m.schema().EmptyText))
		b.WriteString(strings.Repeat("\n", m.tableHeight()))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")
	b.WriteString(m.clip(m.summaryLine()))
	b.WriteString("\n")
	b.WriteString(m.clip(styleMuted().Render("Sort: " + m.sortLabel())))
	b.WriteString("\n")
	b.WriteString(m.clip(m.minibufferText))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) place(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	return xansi.Truncate(s, m.width, "…")
}

func (m appModel) headerLine() string {
	title := styleTitle().Render("tally · " + m.schema().Title)
	if ws := strings.TrimSpace(m.workspace); ws != "" {
		title += styleMuted().Render("  workspace: " + ws)
	}
	return m.clip(title)
}

func (m appModel) searchLine() string {
	if m.mode == modeSearch {
		return m.search.View()
	}
	if q := m.mgr.Search(); q != "" {
		return m.clip(styleMuted().Render(fmt.Sprintf("Search: %q (%d shown)", q, len(m.visible))))
	}
	return ""
}

func (m appModel) summaryLine() string {
	s := m.schema()
	sum := m.mgr.View().Summary
	parts := []string{fmt.Sprintf("Total Quantity: %d", sum.TotalQuantity)}
	if s.HasLength() {
		parts = append(parts, "Total Length: "+model.FormatDecimal(sum.TotalLength)+" m")
	}
	parts = append(parts, s.ValueLabel+": "+model.FormatDecimal(sum.TotalValue))
	cats := make([]string, 0, len(sum.ByCategory))
	for _, c := range sum.ByCategory {
		cats = append(cats, fmt.Sprintf("%s %d", c.Key, c.Quantity))
	}
	if len(cats) > 0 {
		parts = append(parts, strings.Join(cats, ", "))
	}
	return strings.Join(parts, "  ·  ")
}

func (m appModel) formTitle() string {
	noun := m.schema().Noun
	if m.form == formEdit {
		return fmt.Sprintf("Edit %s %d", noun, m.formID)
	}
	return "Add " + noun
}

func (m appModel) formBody() string {
	s := m.schema()
	labelW := 0
	for _, f := range s.Fields {
		labelW = max(labelW, len(f.Label))
	}
	lines := make([]string, 0, len(s.Fields)+4)
	for i, f := range s.Fields {
		label := fmt.Sprintf("%-*s", labelW, f.Label)
		if i == m.focus {
			label = lipgloss.NewStyle().Bold(true).Render(label)
		} else {
			label = styleMuted().Render(label)
		}
		in := ""
		if i < len(m.inputs) {
			in = m.inputs[i].View()
		}
		lines = append(lines, label+"  "+in)
	}
	if m.formErr != "" {
		lines = append(lines, "", styleError().Render(m.formErr))
	}
	lines = append(lines, "", styleMuted().Render("tab: next field   enter: save   esc: cancel"))
	return strings.Join(lines, "\n")
}

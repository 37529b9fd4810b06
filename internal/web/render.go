package web

import (
	"html/template"
	"strconv"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"
)

type pageVM struct {
	Title     string
	Workspace string
	Main      mainVM
}

type reportVM struct {
	Title     string
	Workspace string
	Body      template.HTML
}

type fieldVM struct {
	Name      string
	Label     string
	Unit      string
	InputType string
	Step      string
	Min       string
	Value     string
}

type cellVM struct {
	Value   string
	Numeric bool
}

type rowVM struct {
	ID       int
	Cells    []cellVM
	Length   string
	Value    string
	Quantity int
	Editing  bool
	Edit     []fieldVM
}

type optionVM struct {
	Value    string
	Label    string
	Selected bool
}

type categoryVM struct {
	Key      string
	Quantity int
}

type summaryVM struct {
	TotalQuantity string
	TotalValue    string
	TotalLength   string
	CategoryLabel string
	ByCategory    []categoryVM
}

type mainVM struct {
	Title       string
	Noun        string
	ValueLabel  string
	EmptyText   string
	ClearPrompt string
	ReadOnly    bool
	Flash       string

	Fields    []fieldVM
	Columns   []string
	HasLength bool
	Rows      []rowVM

	Search     string
	SortFields []optionVM
	SortDesc   bool
	Summary    summaryVM
}

// mainVM snapshots the manager for the #tally-main fragment. Callers hold s.mu.
func (s *Server) mainVM() mainVM { return s.mainVMFor(s.mgr.View()) }

func (s *Server) mainVMFor(v listmgr.View) mainVM {
	sc := s.mgr.Schema()
	draft := s.mgr.Draft()
	editID, editDraft, editing := s.mgr.Editing()

	vm := mainVM{
		Title:       sc.Title,
		Noun:        sc.Noun,
		ValueLabel:  sc.ValueLabel,
		EmptyText:   sc.EmptyText,
		ClearPrompt: sc.ClearPrompt,
		ReadOnly:    s.cfg.ReadOnly,
		Flash:       s.flash,
		HasLength:   sc.HasLength(),
		Search:      v.Search,
		SortDesc:    v.SortDir == listmgr.Desc,
		Fields:      fieldVMs(sc, draft),
	}
	for _, f := range sc.Fields {
		vm.Columns = append(vm.Columns, f.Label)
		vm.SortFields = append(vm.SortFields, optionVM{Value: f.Name, Label: f.Label, Selected: f.Name == v.SortField})
	}

	for _, it := range v.Items {
		row := rowVM{
			ID:       it.ID,
			Value:    model.FormatDecimal(sc.Value(it)),
			Quantity: it.Quantity,
		}
		for _, f := range sc.Fields {
			row.Cells = append(row.Cells, cellVM{Value: f.Display(it), Numeric: f.Numeric()})
		}
		if sc.HasLength() {
			row.Length = model.FormatDecimal(sc.Length(it))
		}
		if editing && editID == it.ID {
			row.Editing = true
			row.Edit = fieldVMs(sc, editDraft)
		}
		vm.Rows = append(vm.Rows, row)
	}

	vm.Summary = summaryVM{
		TotalQuantity: strconv.Itoa(v.Summary.TotalQuantity),
		TotalValue:    model.FormatDecimal(v.Summary.TotalValue),
		TotalLength:   model.FormatDecimal(v.Summary.TotalLength),
		CategoryLabel: sc.CategoryField,
	}
	if f, ok := sc.Field(sc.CategoryField); ok {
		vm.Summary.CategoryLabel = f.Label
	}
	for _, c := range v.Summary.ByCategory {
		vm.Summary.ByCategory = append(vm.Summary.ByCategory, categoryVM{Key: c.Key, Quantity: c.Quantity})
	}
	return vm
}

func fieldVMs(sc *model.Schema, d model.Draft) []fieldVM {
	out := make([]fieldVM, 0, len(sc.Fields))
	for _, f := range sc.Fields {
		fv := fieldVM{
			Name:      f.Name,
			Label:     f.Label,
			Unit:      f.Unit,
			InputType: "text",
			Value:     f.DraftValue(d),
		}
		switch f.Kind {
		case model.FieldDecimal:
			fv.InputType, fv.Step = "number", "0.01"
			fv.Min = strconv.FormatFloat(f.Min, 'f', -1, 64)
		case model.FieldInteger:
			fv.InputType, fv.Step = "number", "1"
			fv.Min = strconv.FormatFloat(f.Min, 'f', -1, 64)
		}
		out = append(out, fv)
	}
	return out
}

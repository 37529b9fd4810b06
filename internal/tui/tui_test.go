package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"
	"tally-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

func newTestModel(t *testing.T, s *model.Schema) (appModel, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	mgr, err := listmgr.New(context.Background(), listmgr.Options{Schema: s, KV: kv})
	if err != nil {
		t.Fatalf("listmgr.New: %v", err)
	}
	m := newAppModel(Options{Manager: mgr, Watch: kv, Workspace: "test", ExportDir: t.TempDir()})
	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mAny.(appModel), kv
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m appModel, keys ...string) appModel {
	for _, k := range keys {
		mAny, _ := m.Update(keyMsg(k))
		m = mAny.(appModel)
	}
	return m
}

func visibleIDs(m appModel) []int {
	out := make([]int, 0, len(m.visible))
	for _, it := range m.visible {
		out = append(out, it.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewAppModel_ShowsSeed(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	if got := visibleIDs(m); !equalInts(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("visible = %v", got)
	}
	if got := len(m.table.Rows()); got != 5 {
		t.Fatalf("rows = %d", got)
	}
	v := m.View()
	for _, want := range []string{"Cart", "workspace: test", "Total Quantity: 12", "Total: 17.10"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}

func TestAddForm_AddsItem(t *testing.T) {
	m, kv := newTestModel(t, model.Cart())
	m = press(m, "a")
	if m.mode != modeForm || m.form != formAdd {
		t.Fatalf("expected add form, got mode=%v", m.mode)
	}
	m = press(m, "Pear", "tab", "2", "tab", "Fruits", "tab", "2", "enter")
	if m.mode != modeList {
		t.Fatalf("expected list mode after save, got %v (err=%q)", m.mode, m.formErr)
	}
	it, ok := m.mgr.Find(6)
	if !ok || it.Name != "Pear" || it.Price != 2 || it.Quantity != 2 {
		t.Fatalf("item 6 = %+v ok=%v", it, ok)
	}
	if m.minibufferText != "Added item 6" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
	if _, ok, _ := kv.Get(context.Background(), "cartItems"); !ok {
		t.Fatalf("expected list to be saved")
	}
	if m.table.Cursor() != 5 {
		t.Fatalf("expected cursor on new row, got %d", m.table.Cursor())
	}
}

func TestAddForm_ValidationKeepsFormOpen(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	m = press(m, "a", "Pear", "enter")
	if m.mode != modeForm {
		t.Fatalf("expected form to stay open")
	}
	if m.formErr != "Please fill in all fields." {
		t.Fatalf("formErr = %q", m.formErr)
	}
	if m.focus != 1 {
		t.Fatalf("expected focus on first missing field, got %d", m.focus)
	}
	if len(m.mgr.Items()) != 5 {
		t.Fatalf("list changed on validation error")
	}

	m = press(m, "esc")
	if m.mode != modeList {
		t.Fatalf("esc should close the form")
	}
	if d := m.mgr.Draft(); d.Name != "" {
		t.Fatalf("expected draft cleared, got %+v", d)
	}
}

func TestEditForm_SavesChanges(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	m = press(m, "e")
	if m.mode != modeForm || m.form != formEdit || m.formID != 1 {
		t.Fatalf("expected edit form for item 1")
	}
	if got := m.inputs[0].Value(); got != "Apple" {
		t.Fatalf("name input = %q", got)
	}
	m = press(m, "tab", "5", "enter")
	it, _ := m.mgr.Find(1)
	if it.Price != 1.25 {
		t.Fatalf("price = %v", it.Price)
	}
	if _, _, editing := m.mgr.Editing(); editing {
		t.Fatalf("edit should be closed after save")
	}
}

func TestEditForm_EscCancels(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	m = press(m, "e", "X", "esc")
	if _, _, editing := m.mgr.Editing(); editing {
		t.Fatalf("esc should cancel the edit")
	}
	it, _ := m.mgr.Find(1)
	if it.Name != "Apple" {
		t.Fatalf("name = %q", it.Name)
	}
}

func TestRemoveAndQuantityKeys(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())

	m = press(m, "+")
	if it, _ := m.mgr.Find(1); it.Quantity != 4 {
		t.Fatalf("quantity = %d", it.Quantity)
	}

	m.table.SetCursor(2) // Milk, quantity 1
	m = press(m, "-")
	if it, _ := m.mgr.Find(3); it.Quantity != 1 {
		t.Fatalf("quantity below 1 should be ignored, got %d", it.Quantity)
	}
	if m.minibufferText != "Quantity must be at least 1" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}

	m = press(m, "x")
	if _, ok := m.mgr.Find(3); ok {
		t.Fatalf("expected item 3 removed")
	}
	mAny, _ := m.Update(keyMsg("delete"))
	m = mAny.(appModel)
	if got := visibleIDs(m); !equalInts(got, []int{1, 2, 5}) {
		t.Fatalf("visible = %v", got)
	}
}

func TestSortKeys_ApplyAndReset(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())

	m = press(m, "o")
	if m.minibufferText != "Pick a sort field first (s)" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}

	m = press(m, "s", "s")
	if m.sortField() != "price" {
		t.Fatalf("sort field = %q", m.sortField())
	}
	m = press(m, "o")
	if got := visibleIDs(m); !equalInts(got, []int{4, 1, 3, 2, 5}) {
		t.Fatalf("asc = %v", got)
	}

	m = press(m, "D", "o")
	if got := visibleIDs(m); !equalInts(got, []int{5, 2, 3, 1, 4}) {
		t.Fatalf("desc = %v", got)
	}

	m = press(m, "R")
	if got := visibleIDs(m); !equalInts(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("reset = %v", got)
	}
	if m.sortIdx != -1 || m.sortDir != listmgr.Asc {
		t.Fatalf("sort selection not cleared: %d %s", m.sortIdx, m.sortDir)
	}
	if f, _ := m.mgr.SortSelection(); f != "" {
		t.Fatalf("manager sort = %q", f)
	}
}

func TestSortFieldCyclesBackToNone(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	for range model.Cart().Fields {
		m = press(m, "s")
	}
	if m.sortField() != "quantity" {
		t.Fatalf("sort field = %q", m.sortField())
	}
	m = press(m, "s")
	if m.sortIdx != -1 || m.sortLabel() != "none" {
		t.Fatalf("expected no sort field, got %d", m.sortIdx)
	}
}

func TestSearch_FiltersLive(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	m = press(m, "/", "dairy")
	if got := visibleIDs(m); !equalInts(got, []int{3, 5}) {
		t.Fatalf("visible = %v", got)
	}
	m = press(m, "enter")
	if m.mode != modeList || m.mgr.Search() != "dairy" {
		t.Fatalf("enter should keep the query")
	}
	if !strings.Contains(m.View(), "(2 shown)") {
		t.Fatalf("view should show the active search")
	}
	m = press(m, "/", "esc")
	if got := len(m.visible); got != 5 {
		t.Fatalf("esc should clear search, visible=%d", got)
	}
}

func TestClearConfirm(t *testing.T) {
	m, _ := newTestModel(t, model.Cutting())

	m = press(m, "C")
	if m.mode != modeConfirm {
		t.Fatalf("expected confirm modal")
	}
	if !strings.Contains(m.View(), "Are you sure you want to empty all orders?") {
		t.Fatalf("modal missing prompt")
	}
	m = press(m, "enter")
	if len(m.mgr.Items()) != 5 {
		t.Fatalf("default focus is cancel; list should be intact")
	}

	m = press(m, "C", "y")
	if len(m.visible) != 0 {
		t.Fatalf("expected empty list, got %v", visibleIDs(m))
	}
	if !strings.Contains(m.View(), "No orders found.") {
		t.Fatalf("expected empty text")
	}

	// Our own write must not be reloaded as an external change (which would
	// bring back the seed for an empty stored list).
	mAny, _ := m.Update(reloadTickMsg{})
	m = mAny.(appModel)
	if len(m.visible) != 0 {
		t.Fatalf("tick reloaded own write: %v", visibleIDs(m))
	}
}

func TestReloadTick_PicksUpExternalWrites(t *testing.T) {
	m, kv := newTestModel(t, model.Cart())

	other, err := listmgr.New(context.Background(), listmgr.Options{Schema: model.Cart(), KV: kv})
	if err != nil {
		t.Fatalf("listmgr.New: %v", err)
	}
	if err := other.SetDraftField("name", "Pear"); err != nil {
		t.Fatal(err)
	}
	_ = other.SetDraftField("price", "2")
	_ = other.SetDraftField("storeSection", "Fruits")
	_ = other.SetDraftField("quantity", "1")
	if _, err := other.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	mAny, _ := m.Update(reloadTickMsg{})
	m = mAny.(appModel)
	if got := len(m.visible); got != 6 {
		t.Fatalf("visible = %d", got)
	}
	if m.minibufferText != "Reloaded (changed on disk)" {
		t.Fatalf("minibuffer = %q", m.minibufferText)
	}
}

func TestExportKey_WritesCSV(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	m = press(m, "E")
	b, err := os.ReadFile(filepath.Join(m.exportDir, "cart_items.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(b), "ID,Name,Price,Store Section,Quantity,Total\n1,Apple,1.20,Fruits,3,3.60") {
		t.Fatalf("csv = %q", string(b))
	}
}

func TestReportKey_OpensAndCloses(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	m = press(m, "r")
	if m.mode != modeReport {
		t.Fatalf("expected report mode")
	}
	if !strings.Contains(m.View(), "Report") {
		t.Fatalf("report header missing")
	}
	m = press(m, "esc")
	if m.mode != modeList {
		t.Fatalf("esc should close the report")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, model.Cart())
	before := m.table.Height()
	m = press(m, "?")
	if !m.help.ShowAll {
		t.Fatalf("expected full help")
	}
	if m.table.Height() >= before {
		t.Fatalf("table should shrink for full help: %d -> %d", before, m.table.Height())
	}
}

func TestDarkBackgroundFor(t *testing.T) {
	cases := []struct {
		theme, fgbg string
		dark, ok    bool
	}{
		{"light", "", false, true},
		{"DARK", "", true, true},
		{"auto", "15;0", true, true},
		{"", "0;15", false, true},
		{"", "", false, false},
		{"auto", "garbage", false, false},
	}
	for _, c := range cases {
		dark, ok := darkBackgroundFor(c.theme, c.fgbg)
		if dark != c.dark || ok != c.ok {
			t.Fatalf("darkBackgroundFor(%q,%q) = %v,%v", c.theme, c.fgbg, dark, ok)
		}
	}
}

func TestColorProfileFor(t *testing.T) {
	cases := []struct {
		detected        termenv.Profile
		term, colorterm string
		want            termenv.Profile
	}{
		{termenv.ANSI, "xterm", "truecolor", termenv.TrueColor},
		{termenv.Ascii, "xterm", "truecolor", termenv.Ascii},
		{termenv.ANSI, "xterm-256color", "", termenv.ANSI256},
		{termenv.TrueColor, "xterm-256color", "", termenv.TrueColor},
		{termenv.ANSI, "xterm", "", termenv.ANSI},
	}
	for _, c := range cases {
		if got := colorProfileFor(c.detected, c.term, c.colorterm); got != c.want {
			t.Fatalf("colorProfileFor(%v,%q,%q) = %v, want %v", c.detected, c.term, c.colorterm, got, c.want)
		}
	}
}

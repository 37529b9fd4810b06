// Package listmgr owns a managed list: its items, the transient form and
// search state around it, write-through persistence and the derived view.
package listmgr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"tally-cli/internal/model"
	"tally-cli/internal/store"
)

type Options struct {
	Schema *model.Schema
	KV     store.KV
	// Key overrides the schema's storage key.
	Key    string
	Logger *slog.Logger
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(message string) bool
}

type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Manager is the state store of one list. It is not safe for concurrent use;
// callers that share one across goroutines must serialize access.
type Manager struct {
	schema *model.Schema
	bridge Bridge
	log    *slog.Logger

	items     []model.Item
	highWater int

	search    string
	sortField string
	sortDir   Direction

	draft model.Draft

	editing bool
	editID  int
	edit    model.Draft
}

func New(ctx context.Context, opt Options) (*Manager, error) {
	if opt.Schema == nil {
		return nil, errors.New("listmgr: missing schema")
	}
	if opt.KV == nil {
		return nil, errors.New("listmgr: missing storage")
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	key := strings.TrimSpace(opt.Key)
	if key == "" {
		key = opt.Schema.StorageKey
	}
	m := &Manager{
		schema:  opt.Schema,
		bridge:  Bridge{KV: opt.KV, Key: key, Schema: opt.Schema, Log: log},
		log:     log,
		sortDir: Asc,
	}
	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload replaces the in-memory list with the stored one. Transient UI state
// is kept; an edit whose item disappeared is dropped.
func (m *Manager) Reload(ctx context.Context) error {
	items, hw, err := m.bridge.Load(ctx, m.schema.Seed())
	if err != nil {
		return err
	}
	m.items = items
	m.highWater = max(m.highWater, hw)
	if m.editing && m.indexOf(m.editID) < 0 {
		m.CancelEdit()
	}
	return nil
}

func (m *Manager) Schema() *model.Schema { return m.schema }

// Key is the storage key the list is saved under.
func (m *Manager) Key() string { return m.bridge.Key }

// Items returns a copy of the full, unfiltered list in stored order.
func (m *Manager) Items() []model.Item { return slices.Clone(m.items) }

func (m *Manager) Find(id int) (model.Item, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return model.Item{}, false
	}
	return m.items[i], true
}

func (m *Manager) indexOf(id int) int {
	return slices.IndexFunc(m.items, func(it model.Item) bool { return it.ID == id })
}

func (m *Manager) nextID() int {
	return max(maxID(m.items), m.highWater) + 1
}

func (m *Manager) persist(ctx context.Context, op string) error {
	m.highWater = max(m.highWater, maxID(m.items))
	if err := m.bridge.Save(ctx, m.items, m.highWater); err != nil {
		m.log.Warn("save failed", "op", op, "key", m.bridge.Key, "err", err)
		return &PersistError{Op: op, Err: err}
	}
	m.log.Debug("saved", "op", op, "key", m.bridge.Key, "items", len(m.items))
	return nil
}

// coerce turns a draft into an item, collecting every field problem.
func (m *Manager) coerce(d model.Draft) (model.Item, error) {
	var it model.Item
	verr := &ValidationError{}
	for _, f := range m.schema.Fields {
		if err := f.Assign(&it, f.DraftValue(d)); err != nil {
			verr.add(f.Name, err)
		}
	}
	if len(verr.Problems) > 0 {
		return model.Item{}, verr
	}
	return it, nil
}

func (m *Manager) Search() string { return m.search }

func (m *Manager) SetSearch(q string) { m.search = q }

func (m *Manager) SortSelection() (string, Direction) { return m.sortField, m.sortDir }

// View recomputes the filtered list and the full-list summary.
func (m *Manager) View() View { return m.ViewFor(m.search) }

// ViewFor is View filtered by q instead of the current search. The manager's
// own search is left as is.
func (m *Manager) ViewFor(q string) View {
	v := BuildView(m.schema, m.items, q, m.sortField, m.sortDir)
	if m.editing {
		v.EditingID = m.editID
	}
	return v
}

func (m *Manager) Draft() model.Draft { return m.draft }

func (m *Manager) SetDraftField(name, value string) error {
	f, ok := m.schema.Field(name)
	if !ok {
		return UnknownFieldError{Field: name}
	}
	f.SetDraft(&m.draft, value)
	return nil
}

func (m *Manager) ClearDraft() { m.draft = model.Draft{} }

// Add validates the new-item draft and appends it with the next id.
func (m *Manager) Add(ctx context.Context) (model.Item, error) {
	it, err := m.coerce(m.draft)
	if err != nil {
		return model.Item{}, err
	}
	it.ID = m.nextID()
	m.items = append(m.items, it)
	m.highWater = it.ID
	m.draft = model.Draft{}
	return it, m.persist(ctx, "add")
}

// Remove deletes the item with id. It reports false when no item matched.
func (m *Manager) Remove(ctx context.Context, id int) (bool, error) {
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	m.items = slices.Delete(m.items, i, i+1)
	if m.editing && m.editID == id {
		m.CancelEdit()
	}
	return true, m.persist(ctx, "remove")
}

// StartEdit copies the item into the edit draft. Only one item is edited at a time.
func (m *Manager) StartEdit(id int) error {
	it, ok := m.Find(id)
	if !ok {
		return NotFoundError{Kind: m.schema.Noun, ID: id}
	}
	m.editing = true
	m.editID = id
	m.edit = m.schema.DraftOf(it)
	return nil
}

// Editing reports the id and draft of the edit in progress.
func (m *Manager) Editing() (int, model.Draft, bool) {
	return m.editID, m.edit, m.editing
}

func (m *Manager) ChangeEditField(name, value string) error {
	if !m.editing {
		return ErrNotEditing
	}
	f, ok := m.schema.Field(name)
	if !ok {
		return UnknownFieldError{Field: name}
	}
	f.SetDraft(&m.edit, value)
	return nil
}

// SaveEdit coerces the edit draft and replaces the item's fields. On a
// validation error the draft stays open so the user can correct it.
func (m *Manager) SaveEdit(ctx context.Context, id int) error {
	if !m.editing || m.editID != id {
		return ErrNotEditing
	}
	i := m.indexOf(id)
	if i < 0 {
		m.CancelEdit()
		return NotFoundError{Kind: m.schema.Noun, ID: id}
	}
	it, err := m.coerce(m.edit)
	if err != nil {
		return err
	}
	it.ID = id
	m.items[i] = it
	m.CancelEdit()
	return m.persist(ctx, "edit")
}

func (m *Manager) CancelEdit() {
	m.editing = false
	m.editID = 0
	m.edit = model.Draft{}
}

// QuantityChange sets an item's quantity. Values below 1 are ignored.
func (m *Manager) QuantityChange(ctx context.Context, id, quantity int) (bool, error) {
	if quantity < 1 {
		return false, nil
	}
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	m.items[i].Quantity = quantity
	return true, m.persist(ctx, "quantity")
}

// BulkClear empties the list once c confirms the schema's clear prompt.
func (m *Manager) BulkClear(ctx context.Context, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(m.schema.ClearPrompt) {
		return false, nil
	}
	m.items = []model.Item{}
	m.CancelEdit()
	return true, m.persist(ctx, "clear")
}

// SortApply reorders the stored list by field and records the selection.
// An empty field is a no-op.
func (m *Manager) SortApply(ctx context.Context, field string, dir Direction) error {
	if dir == "" {
		dir = Asc
	}
	if field == "" {
		m.sortDir = dir
		return nil
	}
	sorted, err := Sort(m.schema, m.items, field, dir)
	if err != nil {
		return err
	}
	m.sortField = field
	m.sortDir = dir
	m.items = sorted
	return m.persist(ctx, "sort")
}

// ClearSort forgets the sort selection without touching the list.
func (m *Manager) ClearSort() {
	m.sortField = ""
	m.sortDir = Asc
}

// ResetToSeed restores the factory default list.
func (m *Manager) ResetToSeed(ctx context.Context) error {
	m.items = m.schema.Seed()
	m.CancelEdit()
	return m.persist(ctx, "reset")
}

// SortReset clears the sort selection and restores the seed list, the
// combined action the "Reset Sort" control performs.
func (m *Manager) SortReset(ctx context.Context) error {
	m.ClearSort()
	return m.ResetToSeed(ctx)
}

package model

import (
	"fmt"
	"strings"
)

type Variant string

const (
	VariantCart    Variant = "cart"
	VariantCutting Variant = "cutting"
)

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cart", "cart-items", "cartitems":
		return VariantCart, nil
	case "cutting", "cutting-orders", "cuttingorders", "orders":
		return VariantCutting, nil
	default:
		return "", fmt.Errorf("unknown list kind: %q (expected cart|cutting)", s)
	}
}

// Schema parametrizes a list: which fields it has, how it searches, groups,
// prices and exports, and which seed it falls back to.
type Schema struct {
	Variant Variant
	Title   string
	// Noun is the singular name of one row ("item", "order").
	Noun string

	StorageKey  string
	ExportFile  string
	ClearPrompt string
	EmptyText   string

	Fields        []Field
	SearchFields  []string
	CategoryField string

	// ValueLabel names the derived monetary column ("Total", "Cost").
	ValueLabel string
	// Rates maps a category key to a per-unit cost. Only lists priced by rate use it.
	Rates map[string]float64

	seed  []Item
	value func(s *Schema, it Item) float64
	// length is nil for lists without a length dimension.
	length func(it Item) float64
}

func Lookup(v Variant) (*Schema, error) {
	switch v {
	case VariantCart:
		return Cart(), nil
	case VariantCutting:
		return Cutting(), nil
	default:
		return nil, fmt.Errorf("unknown list kind: %q", v)
	}
}

// Cart returns a fresh shopping-cart schema.
func Cart() *Schema {
	return &Schema{
		Variant:     VariantCart,
		Title:       "Cart",
		Noun:        "item",
		StorageKey:  "cartItems",
		ExportFile:  "cart_items.csv",
		ClearPrompt: "Are you sure you want to empty the cart?",
		EmptyText:   "No items found.",
		Fields: []Field{
			textField("name", "Name",
				func(it *Item) *string { return &it.Name },
				func(d *Draft) *string { return &d.Name }),
			decimalField("price", "Price", "$",
				func(it *Item) *float64 { return &it.Price },
				func(d *Draft) *string { return &d.Price }),
			textField("storeSection", "Store Section",
				func(it *Item) *string { return &it.StoreSection },
				func(d *Draft) *string { return &d.StoreSection }),
			quantityField(),
		},
		SearchFields:  []string{"name", "storeSection"},
		CategoryField: "storeSection",
		ValueLabel:    "Total",
		seed: []Item{
			{ID: 1, Name: "Apple", Price: 1.2, StoreSection: "Fruits", Quantity: 3},
			{ID: 2, Name: "Bread", Price: 2.5, StoreSection: "Bakery", Quantity: 2},
			{ID: 3, Name: "Milk", Price: 1.5, StoreSection: "Dairy", Quantity: 1},
			{ID: 4, Name: "Banana", Price: 0.8, StoreSection: "Fruits", Quantity: 5},
			{ID: 5, Name: "Cheese", Price: 3.0, StoreSection: "Dairy", Quantity: 1},
		},
		value: func(_ *Schema, it Item) float64 { return it.Price * float64(it.Quantity) },
	}
}

// Cutting returns a fresh timber cutting-order schema.
func Cutting() *Schema {
	return &Schema{
		Variant:     VariantCutting,
		Title:       "Cutting Orders",
		Noun:        "order",
		StorageKey:  "cuttingOrders",
		ExportFile:  "cutting_orders.csv",
		ClearPrompt: "Are you sure you want to empty all orders?",
		EmptyText:   "No orders found.",
		Fields: []Field{
			textField("timberType", "Timber Type",
				func(it *Item) *string { return &it.TimberType },
				func(d *Draft) *string { return &d.TimberType }),
			decimalField("requiredLength", "Required Length", "m",
				func(it *Item) *float64 { return &it.RequiredLength },
				func(d *Draft) *string { return &d.RequiredLength }),
			textField("grade", "Grade",
				func(it *Item) *string { return &it.Grade },
				func(d *Draft) *string { return &d.Grade }),
			quantityField(),
		},
		SearchFields:  []string{"timberType", "grade"},
		CategoryField: "timberType",
		ValueLabel:    "Cost",
		Rates: map[string]float64{
			"Pine":   50,
			"Oak":    80,
			"Cedar":  70,
			"Fir":    60,
			"Spruce": 55,
		},
		seed: []Item{
			{ID: 1, TimberType: "Pine", RequiredLength: 4.0, Grade: "A", Quantity: 5},
			{ID: 2, TimberType: "Oak", RequiredLength: 3.5, Grade: "B", Quantity: 3},
			{ID: 3, TimberType: "Cedar", RequiredLength: 2.0, Grade: "A", Quantity: 10},
			{ID: 4, TimberType: "Fir", RequiredLength: 5.0, Grade: "C", Quantity: 2},
			{ID: 5, TimberType: "Spruce", RequiredLength: 3.0, Grade: "B", Quantity: 4},
		},
		value: func(s *Schema, it Item) float64 {
			return it.RequiredLength * float64(it.Quantity) * s.Rate(it.TimberType)
		},
		length: func(it Item) float64 { return it.RequiredLength * float64(it.Quantity) },
	}
}

// Seed returns a copy of the factory default list.
func (s *Schema) Seed() []Item {
	out := make([]Item, len(s.seed))
	copy(out, s.seed)
	return out
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Check reports whether it could have been produced by Assign for every field
// of the list, with a positive id.
func (s *Schema) Check(it Item) error {
	if it.ID < 1 {
		return fmt.Errorf("id %d: %w", it.ID, ErrOutOfRange)
	}
	for _, f := range s.Fields {
		var scratch Item
		if err := f.Assign(&scratch, f.Raw(it)); err != nil {
			return fmt.Errorf("item %d %s: %w", it.ID, f.Name, err)
		}
	}
	return nil
}

func (s *Schema) FieldNames() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}

// Rate returns the per-unit cost for a category key; unknown keys cost 0.
func (s *Schema) Rate(key string) float64 {
	if s.Rates == nil {
		return 0
	}
	return s.Rates[key]
}

// WithRates returns a copy of s whose rate table has overrides applied.
func (s *Schema) WithRates(overrides map[string]float64) *Schema {
	cp := *s
	cp.Rates = make(map[string]float64, len(s.Rates)+len(overrides))
	for k, v := range s.Rates {
		cp.Rates[k] = v
	}
	for k, v := range overrides {
		cp.Rates[k] = v
	}
	return &cp
}

// Value is the derived monetary amount of one row.
func (s *Schema) Value(it Item) float64 { return s.value(s, it) }

func (s *Schema) HasLength() bool { return s.length != nil }

// Length is the total length of one row (length × quantity), or 0.
func (s *Schema) Length(it Item) float64 {
	if s.length == nil {
		return 0
	}
	return s.length(it)
}

func (s *Schema) Category(it Item) string {
	f, ok := s.Field(s.CategoryField)
	if !ok {
		return ""
	}
	return f.Raw(it)
}

// DraftOf copies an item into an editable draft.
func (s *Schema) DraftOf(it Item) Draft {
	var d Draft
	for _, f := range s.Fields {
		f.SetDraft(&d, f.Raw(it))
	}
	return d
}

package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Item is one line of a managed list. A list only uses the fields its Schema
// names; the rest stay zero and are omitted from the stored JSON.
type Item struct {
	ID int `json:"id"`

	// Cart fields.
	Name         string  `json:"name,omitempty"`
	Price        float64 `json:"price,omitempty"`
	StoreSection string  `json:"storeSection,omitempty"`

	// Cutting-order fields.
	TimberType     string  `json:"timberType,omitempty"`
	RequiredLength float64 `json:"requiredLength,omitempty"`
	Grade          string  `json:"grade,omitempty"`

	Quantity int `json:"quantity"`
}

// Draft holds raw, not-yet-committed text input for an add or edit form.
type Draft struct {
	Name         string `json:"name,omitempty"`
	Price        string `json:"price,omitempty"`
	StoreSection string `json:"storeSection,omitempty"`

	TimberType     string `json:"timberType,omitempty"`
	RequiredLength string `json:"requiredLength,omitempty"`
	Grade          string `json:"grade,omitempty"`

	Quantity string `json:"quantity,omitempty"`
}

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldDecimal
	FieldInteger
)

func (k FieldKind) String() string {
	switch k {
	case FieldDecimal:
		return "decimal"
	case FieldInteger:
		return "integer"
	default:
		return "text"
	}
}

var (
	ErrRequired   = errors.New("required")
	ErrNotNumber  = errors.New("not a number")
	ErrOutOfRange = errors.New("out of range")
)

// Field describes one editable column of an Item.
type Field struct {
	Name  string
	Label string
	Unit  string
	Kind  FieldKind
	// Min is the smallest accepted value for numeric fields.
	Min float64

	str   func(*Item) *string
	num   func(*Item) *float64
	whole func(*Item) *int
	draft func(*Draft) *string
}

func (f Field) Numeric() bool { return f.Kind != FieldText }

// Raw returns the field value as plain text (no rounding), as a form would show it.
func (f Field) Raw(it Item) string {
	switch f.Kind {
	case FieldDecimal:
		return strconv.FormatFloat(*f.num(&it), 'f', -1, 64)
	case FieldInteger:
		return strconv.Itoa(*f.whole(&it))
	default:
		return *f.str(&it)
	}
}

// Display returns the value formatted for tables: decimals get two places.
func (f Field) Display(it Item) string {
	if f.Kind == FieldDecimal {
		return FormatDecimal(*f.num(&it))
	}
	return f.Raw(it)
}

// Number returns the numeric value of the field; text fields report 0.
func (f Field) Number(it Item) float64 {
	switch f.Kind {
	case FieldDecimal:
		return *f.num(&it)
	case FieldInteger:
		return float64(*f.whole(&it))
	default:
		return 0
	}
}

func (f Field) DraftValue(d Draft) string { return *f.draft(&d) }

func (f Field) SetDraft(d *Draft, v string) { *f.draft(d) = v }

// Assign coerces raw input and stores it on it. Nothing is written on error.
func (f Field) Assign(it *Item, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrRequired
	}
	switch f.Kind {
	case FieldDecimal:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNotNumber
		}
		if v < f.Min {
			return ErrOutOfRange
		}
		*f.num(it) = v
	case FieldInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return ErrNotNumber
		}
		if float64(v) < f.Min {
			return ErrOutOfRange
		}
		*f.whole(it) = v
	default:
		*f.str(it) = raw
	}
	return nil
}

// FormatDecimal renders v with two decimal places.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func textField(name, label string, str func(*Item) *string, draft func(*Draft) *string) Field {
	return Field{Name: name, Label: label, Kind: FieldText, str: str, draft: draft}
}

func decimalField(name, label, unit string, num func(*Item) *float64, draft func(*Draft) *string) Field {
	return Field{Name: name, Label: label, Unit: unit, Kind: FieldDecimal, Min: 0, num: num, draft: draft}
}

func quantityField() Field {
	return Field{
		Name:  "quantity",
		Label: "Quantity",
		Kind:  FieldInteger,
		Min:   1,
		whole: func(it *Item) *int { return &it.Quantity },
		draft: func(d *Draft) *string { return &d.Quantity },
	}
}

package model

import (
	"errors"
	"testing"
)

func TestFieldAssign(t *testing.T) {
	t.Parallel()

	cart := Cart()
	cutting := Cutting()
	price, _ := cart.Field("price")
	qty, _ := cart.Field("quantity")
	name, _ := cart.Field("name")
	length, _ := cutting.Field("requiredLength")

	tests := []struct {
		name    string
		f       Field
		raw     string
		wantErr error
		check   func(Item) bool
	}{
		{name: "text trimmed", f: name, raw: "  Tea ", check: func(it Item) bool { return it.Name == "Tea" }},
		{name: "text empty", f: name, raw: "   ", wantErr: ErrRequired},
		{name: "decimal", f: price, raw: "2.75", check: func(it Item) bool { return it.Price == 2.75 }},
		{name: "decimal zero allowed", f: price, raw: "0", check: func(it Item) bool { return it.Price == 0 }},
		{name: "decimal negative", f: price, raw: "-1", wantErr: ErrOutOfRange},
		{name: "decimal garbage", f: price, raw: "abc", wantErr: ErrNotNumber},
		{name: "decimal NaN", f: length, raw: "NaN", wantErr: ErrNotNumber},
		{name: "decimal Inf", f: length, raw: "+Inf", wantErr: ErrNotNumber},
		{name: "integer", f: qty, raw: "4", check: func(it Item) bool { return it.Quantity == 4 }},
		{name: "integer zero", f: qty, raw: "0", wantErr: ErrOutOfRange},
		{name: "integer fractional", f: qty, raw: "1.5", wantErr: ErrNotNumber},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			it := Item{ID: 1, Name: "keep", Price: 9, Quantity: 9, RequiredLength: 9}
			err := tt.f.Assign(&it, tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if it.Name != "keep" || it.Price != 9 || it.Quantity != 9 || it.RequiredLength != 9 {
					t.Fatalf("item modified on error: %+v", it)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(it) {
				t.Fatalf("unexpected item: %+v", it)
			}
		})
	}
}

func TestFieldDisplayAndRaw(t *testing.T) {
	s := Cart()
	it := Item{ID: 1, Name: "Tea", Price: 1.5, StoreSection: "Drinks", Quantity: 2}
	price, _ := s.Field("price")
	if got := price.Display(it); got != "1.50" {
		t.Fatalf("Display = %q", got)
	}
	if got := price.Raw(it); got != "1.5" {
		t.Fatalf("Raw = %q", got)
	}
	qty, _ := s.Field("quantity")
	if got := qty.Display(it); got != "2" {
		t.Fatalf("quantity Display = %q", got)
	}
	if !price.Numeric() || !qty.Numeric() {
		t.Fatalf("expected numeric fields")
	}
}

func TestDraftAccessors(t *testing.T) {
	s := Cutting()
	var d Draft
	for _, f := range s.Fields {
		f.SetDraft(&d, f.Name+"-v")
	}
	if d.TimberType != "timberType-v" || d.RequiredLength != "requiredLength-v" || d.Grade != "grade-v" || d.Quantity != "quantity-v" {
		t.Fatalf("unexpected draft: %+v", d)
	}
	if d.Name != "" || d.Price != "" {
		t.Fatalf("cart fields should stay empty: %+v", d)
	}
	f, _ := s.Field("grade")
	if f.DraftValue(d) != "grade-v" {
		t.Fatalf("DraftValue mismatch")
	}
}

func TestFieldKindString(t *testing.T) {
	if FieldDecimal.String() != "decimal" || FieldInteger.String() != "integer" || FieldText.String() != "text" {
		t.Fatalf("unexpected kind names")
	}
}

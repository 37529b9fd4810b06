package model

import (
	"errors"
	"testing"
)

func TestParseVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{in: "", want: VariantCart},
		{in: "cart", want: VariantCart},
		{in: " Cutting ", want: VariantCutting},
		{in: "orders", want: VariantCutting},
		{in: "inventory", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseVariant(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseVariant(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSeedIsACopy(t *testing.T) {
	s := Cart()
	a := s.Seed()
	a[0].Name = "changed"
	if s.Seed()[0].Name != "Apple" {
		t.Fatalf("seed was mutated through a returned slice")
	}
}

func TestSchemaValue(t *testing.T) {
	cart := Cart()
	if v := cart.Value(Item{Price: 2.5, Quantity: 4}); v != 10 {
		t.Fatalf("cart value = %v", v)
	}
	cutting := Cutting()
	if v := cutting.Value(Item{TimberType: "Oak", RequiredLength: 2, Quantity: 3}); v != 480 {
		t.Fatalf("cutting value = %v", v)
	}
	if v := cutting.Value(Item{TimberType: "Birch", RequiredLength: 2, Quantity: 3}); v != 0 {
		t.Fatalf("unknown rate should cost 0, got %v", v)
	}
	if cart.HasLength() || !cutting.HasLength() {
		t.Fatalf("unexpected length dimension")
	}
	if l := cutting.Length(Item{RequiredLength: 2.5, Quantity: 4}); l != 10 {
		t.Fatalf("length = %v", l)
	}
}

func TestWithRatesDoesNotTouchOriginal(t *testing.T) {
	s := Cutting()
	o := s.WithRates(map[string]float64{"Oak": 100, "Birch": 40})
	if o.Rate("Oak") != 100 || o.Rate("Birch") != 40 || o.Rate("Pine") != 50 {
		t.Fatalf("unexpected overridden rates: %v", o.Rates)
	}
	if s.Rate("Oak") != 80 || s.Rate("Birch") != 0 {
		t.Fatalf("original rates changed: %v", s.Rates)
	}
}

func TestDraftOfAndCategory(t *testing.T) {
	s := Cart()
	it := s.Seed()[1]
	d := s.DraftOf(it)
	if d.Name != "Bread" || d.Price != "2.5" || d.StoreSection != "Bakery" || d.Quantity != "2" {
		t.Fatalf("unexpected draft: %+v", d)
	}
	if s.Category(it) != "Bakery" {
		t.Fatalf("unexpected category %q", s.Category(it))
	}
	if got := s.FieldNames(); len(got) != 4 || got[0] != "name" || got[3] != "quantity" {
		t.Fatalf("unexpected field names %v", got)
	}
}

func TestLookup(t *testing.T) {
	if s, err := Lookup(VariantCutting); err != nil || s.StorageKey != "cuttingOrders" {
		t.Fatalf("Lookup cutting: %v", err)
	}
	if _, err := Lookup("x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSchemaCheck(t *testing.T) {
	t.Parallel()

	cart := Cart()
	tests := []struct {
		name    string
		it      Item
		wantErr error
	}{
		{name: "seed row", it: cart.Seed()[0]},
		{name: "zero price", it: Item{ID: 9, Name: "Bag", Price: 0, StoreSection: "Misc", Quantity: 1}},
		{name: "zero id", it: Item{Name: "Tea", Price: 1, StoreSection: "Drinks", Quantity: 1}, wantErr: ErrOutOfRange},
		{name: "zero quantity", it: Item{ID: 1, Name: "Tea", Price: 1, StoreSection: "Drinks"}, wantErr: ErrOutOfRange},
		{name: "negative price", it: Item{ID: 1, Name: "Tea", Price: -3, StoreSection: "Drinks", Quantity: 2}, wantErr: ErrOutOfRange},
		{name: "missing section", it: Item{ID: 1, Name: "Tea", Price: 1, Quantity: 1}, wantErr: ErrRequired},
	}
	for _, tt := range tests {
		err := cart.Check(tt.it)
		if tt.wantErr == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	for _, it := range Cutting().Seed() {
		if err := Cutting().Check(it); err != nil {
			t.Fatalf("cutting seed %d: %v", it.ID, err)
		}
	}
}

package listmgr

import (
	"slices"
	"testing"

	"tally-cli/internal/model"
)

func TestFilter_EmptyQueryReturnsEverything(t *testing.T) {
	s := model.Cart()
	items := s.Seed()
	got := Filter(s, items, "")
	if !slices.Equal(got, items) {
		t.Fatalf("expected all items, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    *model.Schema
		q    string
		want []int
	}{
		{name: "cart name", s: model.Cart(), q: "an", want: []int{4}},
		{name: "cart section case-insensitive", s: model.Cart(), q: "FRUIT", want: []int{1, 4}},
		{name: "cart price is not searched", s: model.Cart(), q: "2.5", want: []int{}},
		{name: "cutting grade", s: model.Cutting(), q: "b", want: []int{2, 5}},
		{name: "cutting timber", s: model.Cutting(), q: "oak", want: []int{2}},
		{name: "no match", s: model.Cutting(), q: "walnut", want: []int{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Filter(tt.s, tt.s.Seed(), tt.q))
			if !equalInts(got, tt.want) {
				t.Fatalf("Filter(%q) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestSort_DescIsReverseOfAscWithoutTies(t *testing.T) {
	s := model.Cart()
	for _, field := range []string{"name", "price"} {
		asc, err := Sort(s, s.Seed(), field, Asc)
		if err != nil {
			t.Fatalf("sort asc: %v", err)
		}
		desc, err := Sort(s, s.Seed(), field, Desc)
		if err != nil {
			t.Fatalf("sort desc: %v", err)
		}
		rev := slices.Clone(asc)
		slices.Reverse(rev)
		if !slices.Equal(rev, desc) {
			t.Fatalf("%s: reverse(asc)=%v desc=%v", field, ids(rev), ids(desc))
		}
	}
}

func TestSort_IsStableAndDoesNotMutateInput(t *testing.T) {
	s := model.Cutting()
	items := s.Seed()
	got, err := Sort(s, items, "grade", Asc)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if want := []int{1, 3, 2, 5, 4}; !equalInts(ids(got), want) {
		t.Fatalf("expected stable grade order %v, got %v", want, ids(got))
	}
	if !equalInts(ids(items), []int{1, 2, 3, 4, 5}) {
		t.Fatalf("input was reordered: %v", ids(items))
	}
}

func TestSort_TextIsCaseInsensitive(t *testing.T) {
	s := model.Cart()
	items := []model.Item{
		{ID: 1, Name: "banana", Quantity: 1},
		{ID: 2, Name: "Apple", Quantity: 1},
		{ID: 3, Name: "cherry", Quantity: 1},
	}
	got, _ := Sort(s, items, "name", Asc)
	if want := []int{2, 1, 3}; !equalInts(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestSort_NumericIsNotLexicographic(t *testing.T) {
	s := model.Cutting()
	items := []model.Item{
		{ID: 1, TimberType: "Pine", RequiredLength: 10, Grade: "A", Quantity: 1},
		{ID: 2, TimberType: "Pine", RequiredLength: 9, Grade: "A", Quantity: 1},
		{ID: 3, TimberType: "Pine", RequiredLength: 2.5, Grade: "A", Quantity: 1},
	}
	got, _ := Sort(s, items, "requiredLength", Asc)
	if want := []int{3, 2, 1}; !equalInts(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestAggregate_Cart(t *testing.T) {
	s := model.Cart()
	sum := Aggregate(s, s.Seed())
	if sum.TotalQuantity != 12 {
		t.Fatalf("expected 12, got %d", sum.TotalQuantity)
	}
	if got := model.FormatDecimal(sum.TotalValue); got != "17.10" {
		t.Fatalf("expected total 17.10, got %s", got)
	}
	if sum.TotalLength != 0 {
		t.Fatalf("cart has no length dimension")
	}
	want := []CategoryTotal{{Key: "Fruits", Quantity: 8}, {Key: "Bakery", Quantity: 2}, {Key: "Dairy", Quantity: 2}}
	if !slices.Equal(sum.ByCategory, want) {
		t.Fatalf("unexpected categories: %+v", sum.ByCategory)
	}
}

func TestAggregate_Cutting(t *testing.T) {
	s := model.Cutting()
	sum := Aggregate(s, s.Seed())
	if sum.TotalQuantity != 24 {
		t.Fatalf("expected 24 pieces, got %d", sum.TotalQuantity)
	}
	if sum.TotalValue != 4500 {
		t.Fatalf("expected cost 4500, got %v", sum.TotalValue)
	}
	if sum.TotalLength != 72.5 {
		t.Fatalf("expected total length 72.5, got %v", sum.TotalLength)
	}
}

func TestAggregate_UnknownRateCostsNothing(t *testing.T) {
	s := model.Cutting()
	items := []model.Item{{ID: 1, TimberType: "Walnut", RequiredLength: 2, Grade: "A", Quantity: 3}}
	sum := Aggregate(s, items)
	if sum.TotalValue != 0 || sum.TotalQuantity != 3 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	priced := Aggregate(s.WithRates(map[string]float64{"Walnut": 100}), items)
	if priced.TotalValue != 600 {
		t.Fatalf("expected overridden rate to apply, got %v", priced.TotalValue)
	}
}

func TestAggregate_InvariantUnderSort(t *testing.T) {
	s := model.Cutting()
	base := Aggregate(s, s.Seed())
	for _, f := range s.FieldNames() {
		sorted, _ := Sort(s, s.Seed(), f, Desc)
		got := Aggregate(s, sorted)
		if got.TotalQuantity != base.TotalQuantity {
			t.Fatalf("sort by %s changed total quantity", f)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Asc, "ASC": Asc, "desc": Desc, " descending ": Desc} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Fatalf("expected error")
	}
}

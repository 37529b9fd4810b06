package listmgr

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"tally-cli/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort direction: %q (expected asc|desc)", s)
	}
}

type CategoryTotal struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
}

// Summary aggregates the full list, never the filtered view.
type Summary struct {
	TotalQuantity int     `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
	// TotalLength is Σ length × quantity for lists with a length dimension.
	TotalLength float64         `json:"totalLength,omitempty"`
	ByCategory  []CategoryTotal `json:"byCategory"`
}

type View struct {
	Items     []model.Item `json:"items"`
	Summary   Summary      `json:"summary"`
	Search    string       `json:"search,omitempty"`
	SortField string       `json:"sortField,omitempty"`
	SortDir   Direction    `json:"sortDir"`
	EditingID int          `json:"editingId,omitempty"`
}

// Filter keeps items whose search fields contain q, case-insensitively.
func Filter(s *model.Schema, items []model.Item, q string) []model.Item {
	q = strings.ToLower(q)
	out := make([]model.Item, 0, len(items))
	if q == "" {
		return append(out, items...)
	}
	fields := make([]model.Field, 0, len(s.SearchFields))
	for _, name := range s.SearchFields {
		if f, ok := s.Field(name); ok {
			fields = append(fields, f)
		}
	}
	for _, it := range items {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f.Raw(it)), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy of items. An empty field leaves the order unchanged.
func Sort(s *model.Schema, items []model.Item, field string, dir Direction) ([]model.Item, error) {
	out := slices.Clone(items)
	if field == "" {
		return out, nil
	}
	f, ok := s.Field(field)
	if !ok {
		return nil, UnknownFieldError{Field: field}
	}

	var compare func(a, b model.Item) int
	if f.Numeric() {
		compare = func(a, b model.Item) int { return cmp.Compare(f.Number(a), f.Number(b)) }
	} else {
		col := collate.New(language.English)
		compare = func(a, b model.Item) int { return col.CompareString(f.Raw(a), f.Raw(b)) }
	}
	slices.SortStableFunc(out, func(a, b model.Item) int {
		c := compare(a, b)
		if dir == Desc {
			return -c
		}
		return c
	})
	return out, nil
}

// BuildView filters items for display and summarizes the full list.
func BuildView(s *model.Schema, items []model.Item, search, sortField string, sortDir Direction) View {
	return View{
		Items:     Filter(s, items, search),
		Summary:   Aggregate(s, items),
		Search:    search,
		SortField: sortField,
		SortDir:   sortDir,
	}
}

func Aggregate(s *model.Schema, items []model.Item) Summary {
	sum := Summary{ByCategory: []CategoryTotal{}}
	idx := map[string]int{}
	for _, it := range items {
		sum.TotalQuantity += it.Quantity
		sum.TotalValue += s.Value(it)
		sum.TotalLength += s.Length(it)

		key := s.Category(it)
		i, ok := idx[key]
		if !ok {
			i = len(sum.ByCategory)
			idx[key] = i
			sum.ByCategory = append(sum.ByCategory, CategoryTotal{Key: key})
		}
		sum.ByCategory[i].Quantity += it.Quantity
	}
	return sum
}

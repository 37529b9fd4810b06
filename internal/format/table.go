package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular values choose their own columns when written as a table.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteTable renders v as a bordered table. A {"data": ...} envelope is
// unwrapped first. Values that are not Tabular go through their JSON form:
// a list of objects becomes one row per object, an object becomes
// key/value rows.
func WriteTable(w io.Writer, v any) error {
	if m, ok := v.(map[string]any); ok {
		if d, ok := m["data"]; ok && len(m) == 1 {
			v = d
		}
	}

	var headers []string
	var rows [][]string
	if t, ok := v.(Tabular); ok {
		headers, rows = t.TableHeaders(), t.TableRows()
	} else {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var x any
		if err := json.Unmarshal(b, &x); err != nil {
			return err
		}
		headers, rows = genericTable(x)
	}

	if len(headers) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func genericTable(x any) ([]string, [][]string) {
	switch t := x.(type) {
	case []any:
		keys := map[string]bool{}
		for _, el := range t {
			if m, ok := el.(map[string]any); ok {
				for k := range m {
					keys[k] = true
				}
			}
		}
		if len(keys) == 0 {
			rows := make([][]string, 0, len(t))
			for _, el := range t {
				rows = append(rows, []string{cell(el)})
			}
			return []string{"value"}, rows
		}
		headers := sortedKeys(keys)
		rows := make([][]string, 0, len(t))
		for _, el := range t {
			m, _ := el.(map[string]any)
			row := make([]string, len(headers))
			for i, h := range headers {
				row[i] = cell(m[h])
			}
			rows = append(rows, row)
		}
		return headers, rows
	case map[string]any:
		keys := map[string]bool{}
		for k := range t {
			keys[k] = true
		}
		rows := [][]string{}
		for _, k := range sortedKeys(keys) {
			rows = append(rows, []string{k, cell(t[k])})
		}
		return []string{"key", "value"}, rows
	case nil:
		return nil, nil
	default:
		return []string{"value"}, [][]string{{cell(t)}}
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"tally-cli/internal/listmgr"
	"tally-cli/internal/model"
)

type RenderOptions struct {
	// Workspace is shown in the report header when set.
	Workspace string
	// Now stamps the report; zero means time.Now().
	Now time.Time
}

// RenderListMarkdown renders the full list and its summary as a markdown report.
func RenderListMarkdown(s *model.Schema, items []model.Item, opt RenderOptions) (string, error) {
	if s == nil {
		return "", fmt.Errorf("missing schema")
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	sum := listmgr.Aggregate(s, items)

	var buf bytes.Buffer
	writeLn := func(str string) {
		buf.WriteString(str)
		buf.WriteString("\n")
	}

	writeLn("# " + s.Title)
	writeLn("")
	if ws := strings.TrimSpace(opt.Workspace); ws != "" {
		writeLn("- Workspace: " + ws)
	}
	writeLn("- Generated: " + now.UTC().Format(time.RFC3339))
	writeLn("")

	writeLn("## " + titleNoun(s.Noun) + "s")
	writeLn("")
	if len(items) == 0 {
		writeLn("_" + s.EmptyText + "_")
	} else {
		header := listmgr.ExportHeader(s)
		writeLn("| " + strings.Join(header, " | ") + " |")
		align := make([]string, len(header))
		for i := range header {
			align[i] = "---"
			if i == 0 || i >= len(header)-2 {
				align[i] = "---:"
			}
		}
		writeLn("| " + strings.Join(align, " | ") + " |")
		for _, row := range listmgr.ExportRows(s, items) {
			for i := range row {
				row[i] = escapeCell(row[i])
			}
			writeLn("| " + strings.Join(row, " | ") + " |")
		}
	}
	writeLn("")

	writeLn("## Summary")
	writeLn("")
	writeLn(fmt.Sprintf("- Total %s: %d", quantityLabel(s), sum.TotalQuantity))
	if s.HasLength() {
		writeLn("- Total Length: " + model.FormatDecimal(sum.TotalLength) + " m")
	}
	writeLn("- " + s.ValueLabel + ": " + model.FormatDecimal(sum.TotalValue))
	if len(sum.ByCategory) > 0 {
		label := s.CategoryField
		if f, ok := s.Field(s.CategoryField); ok {
			label = f.Label
		}
		writeLn("")
		writeLn("### By " + label)
		writeLn("")
		for _, c := range sum.ByCategory {
			writeLn(fmt.Sprintf("- %s: %d", c.Key, c.Quantity))
		}
	}
	return buf.String(), nil
}

func quantityLabel(s *model.Schema) string {
	if s.HasLength() {
		return "Pieces"
	}
	return "Items"
}

func titleNoun(n string) string {
	if n == "" {
		return "Item"
	}
	return strings.ToUpper(n[:1]) + n[1:]
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

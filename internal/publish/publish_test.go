package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tally-cli/internal/model"
)

func TestRenderListMarkdown_Cutting(t *testing.T) {
	t.Parallel()

	s := model.Cutting()
	md, err := RenderListMarkdown(s, s.Seed(), RenderOptions{
		Workspace: "yard",
		Now:       time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"# Cutting Orders",
		"- Workspace: yard",
		"- Generated: 2025-12-20T00:00:00Z",
		"## Orders",
		"| ID | Timber Type | Required Length | Grade | Quantity | Cost |",
		"| 2 | Oak | 3.50 | B | 3 | 840.00 |",
		"- Total Pieces: 24",
		"- Total Length: 72.50 m",
		"- Cost: 4500.00",
		"### By Timber Type",
		"- Cedar: 10",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}

func TestRenderListMarkdown_EmptyCart(t *testing.T) {
	t.Parallel()

	md, err := RenderListMarkdown(model.Cart(), nil, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(md, "_No items found._") || !strings.Contains(md, "- Total: 0.00") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	if strings.Contains(md, "Total Length") || strings.Contains(md, "### By") {
		t.Fatalf("cart report should not show length or categories when empty:\n%s", md)
	}
}

func TestRenderListMarkdown_EscapesPipes(t *testing.T) {
	items := []model.Item{{ID: 1, Name: "a|b", Price: 1, StoreSection: "x", Quantity: 1}}
	md, _ := RenderListMarkdown(model.Cart(), items, RenderOptions{})
	if !strings.Contains(md, `| 1 | a\|b |`) {
		t.Fatalf("expected escaped pipe:\n%s", md)
	}
}

func TestWriteList_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := model.Cart()
	res, err := WriteList(s, s.Seed(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(res.Written) != 1 || res.Written[0] != filepath.Join(dir, "cartItems.md") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(res.Written[0]); err != nil {
		t.Fatalf("expected file: %v", err)
	}
	if _, err := WriteList(s, s.Seed(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected overwrite error")
	}
	if _, err := WriteList(s, s.Seed(), dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

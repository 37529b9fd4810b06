package docs

import (
	"strings"
	"testing"
)

func TestTopicsAreSortedAndReadable(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for i, name := range topics {
		if i > 0 && topics[i-1] > name {
			t.Fatalf("topics not sorted: %v", topics)
		}
		body, ok := Get(name)
		if !ok || strings.TrimSpace(body) == "" {
			t.Fatalf("topic %q not readable", name)
		}
	}
}

func TestGet(t *testing.T) {
	if _, ok := Get(" Overview "); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	for _, bad := range []string{"", "missing", "../docs", "content/overview"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("Get(%q) should fail", bad)
		}
	}
}

func TestIndexUsesFirstHeading(t *testing.T) {
	for _, tp := range Index() {
		if tp.Name == "overview" && tp.Title != "tally" {
			t.Fatalf("unexpected overview title %q", tp.Title)
		}
	}
}

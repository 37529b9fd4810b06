package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"TALLY_BACKEND", "TALLY_FORMAT", "TALLY_WEB_ADDR"} {
		t.Setenv(k, "unset")
		_ = os.Unsetenv(k)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Backend != "sqlite" {
		t.Fatalf("expected sqlite backend default, got %q", s.Backend)
	}
	if s.Format != "json" {
		t.Fatalf("expected json format default, got %q", s.Format)
	}
	if s.WebAddr != "127.0.0.1:3333" {
		t.Fatalf("unexpected web addr default: %q", s.WebAddr)
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("TALLY_LIST", "cutting")
	t.Setenv("TALLY_WORKSPACE", "yard")
	t.Setenv("TALLY_BACKEND", "file")

	s, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.List != "cutting" || s.Workspace != "yard" || s.Backend != "file" {
		t.Fatalf("unexpected settings: %+v", s)
	}
}

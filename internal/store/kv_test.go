package store

import (
	"context"
	"testing"
)

func kvBackends(t *testing.T) map[string]KV {
	t.Helper()
	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   FileKV{Dir: t.TempDir()},
		"sqlite": NewSQLiteKV(t.TempDir()),
	}
}

func TestKV_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := kv.Get(ctx, "cartItems")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok || v != "" {
				t.Fatalf("expected missing key, got ok=%v v=%q", ok, v)
			}
		})
	}
}

func TestKV_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := kv.Set(ctx, "cuttingOrders", `[{"id":1}]`); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, "cuttingOrders", `[]`); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, ok, err := kv.Get(ctx, "cuttingOrders")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !ok || v != `[]` {
				t.Fatalf("expected overwritten value, got ok=%v v=%q", ok, v)
			}
		})
	}
}

func TestKV_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			_ = kv.Set(ctx, "cartItems", "a")
			_ = kv.Set(ctx, "cuttingOrders", "b")
			a, _, _ := kv.Get(ctx, "cartItems")
			b, _, _ := kv.Get(ctx, "cuttingOrders")
			if a != "a" || b != "b" {
				t.Fatalf("keys leaked into each other: a=%q b=%q", a, b)
			}
		})
	}
}

func TestKV_ModTimeAdvancesOnWrite(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			mt, ok := kv.(ModTimer)
			if !ok {
				t.Fatalf("%s backend should report mod times", name)
			}
			before, err := mt.ModTime(ctx, "cartItems")
			if err != nil {
				t.Fatalf("modtime: %v", err)
			}
			if !before.IsZero() {
				t.Fatalf("expected zero mod time for missing key, got %v", before)
			}
			if err := kv.Set(ctx, "cartItems", "[]"); err != nil {
				t.Fatalf("set: %v", err)
			}
			after, err := mt.ModTime(ctx, "cartItems")
			if err != nil {
				t.Fatalf("modtime: %v", err)
			}
			if after.IsZero() {
				t.Fatalf("expected mod time after write")
			}
		})
	}
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv := FileKV{Dir: t.TempDir()}
	if err := kv.Set(context.Background(), "../escape", "x"); err == nil {
		t.Fatalf("expected error for key with path separator")
	}
}

func TestParseBackend(t *testing.T) {
	cases := map[string]Backend{"": BackendSQLite, "SQLite": BackendSQLite, "json": BackendFile, "mem": BackendMemory}
	for in, want := range cases {
		got, err := ParseBackend(in)
		if err != nil || got != want {
			t.Fatalf("ParseBackend(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseBackend("redis"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

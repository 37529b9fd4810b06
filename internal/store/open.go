package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite":
		return BackendSQLite, nil
	case "file", "json":
		return BackendFile, nil
	case "memory", "mem":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unknown backend: %q (expected sqlite|file|memory)", s)
	}
}

// Open returns the KV for a workspace directory.
func Open(b Backend, dir string) (KV, error) {
	switch b {
	case BackendSQLite:
		return NewSQLiteKV(dir), nil
	case BackendFile:
		return FileKV{Dir: dir}, nil
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", b)
	}
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

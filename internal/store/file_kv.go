package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileKV stores each key as <dir>/<key>.json, written atomically.
type FileKV struct {
	Dir string
}

func (f FileKV) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errors.New("file kv: invalid key: " + key)
	}
	return filepath.Join(f.Dir, key+".json"), nil
}

func (f FileKV) Get(_ context.Context, key string) (string, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (f FileKV) Set(_ context.Context, key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(f.Dir, filepath.Base(p)+".*.tmp", p, []byte(value), 0o644)
}

func (f FileKV) ModTime(_ context.Context, key string) (time.Time, error) {
	p, err := f.path(key)
	if err != nil {
		return time.Time{}, err
	}
	st, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return st.ModTime().UTC(), nil
}

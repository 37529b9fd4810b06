package store

import (
	"context"
	"sync"
	"time"
)

// KV is durable key-value storage for serialized lists. One key holds one list.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ModTimer is implemented by backends that can report when a key last changed.
// Interactive views poll it to pick up writes made by other processes.
type ModTimer interface {
	ModTime(ctx context.Context, key string) (time.Time, error)
}

// MemoryKV keeps values in process memory. It backs tests and --backend=memory.
type MemoryKV struct {
	mu    sync.Mutex
	vals  map[string]string
	mtime map[string]time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{vals: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vals == nil {
		m.vals = map[string]string{}
	}
	if m.mtime == nil {
		m.mtime = map[string]time.Time{}
	}
	m.vals[key] = value
	m.mtime[key] = time.Now().UTC()
	return nil
}

func (m *MemoryKV) ModTime(_ context.Context, key string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mtime[key], nil
}

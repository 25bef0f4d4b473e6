package store

import (
	"context"
	"sync"
)

type memEntry struct {
	value   []byte
	version int64
}

// MemoryKV keeps everything in-process. It is the default backend for local
// runs and the one used by most tests.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]memEntry
}

// NewMemoryKV initializes an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]memEntry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, 0, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, e.version, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.items[key].version
	if cur != expected {
		return 0, ErrVersionConflict
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.items[key] = memEntry{value: buf, version: cur + 1}
	return cur + 1, nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

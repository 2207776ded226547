// internal/app/store/snapshot/memory.go
package snapshot

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps snapshots in process memory. It outlives the stores built on
// it, which makes it useful for simulating a restart in tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[name]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, nil
}

func (m *Memory) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[name] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Names(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for n := range m.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

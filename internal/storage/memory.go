package storage

import (
	"context"
	"sync"
)

// Memory is a process-local backend for tests and throwaway runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	// SaveErr, when set, is returned by every Save call
	SaveErr error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Put stores raw bytes without going through Save, e.g. to seed
// a corrupted snapshot in tests
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}

func (m *Memory) Close() error {
	return nil
}

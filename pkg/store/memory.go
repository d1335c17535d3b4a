package store

import (
	"context"
	"sync"

	"github.com/matzehuels/gridboard/pkg/board"
)

// MemoryStore keeps state in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]board.State
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]board.State)}
}

func (m *MemoryStore) Load(ctx context.Context, key string) (*board.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[key]
	if !ok {
		return nil, nil
	}
	s.Marked = append([]int(nil), s.Marked...)
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, s board.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Marked = append([]int(nil), s.Marked...)
	m.states[key] = s
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)
	return nil
}

func (m *MemoryStore) Name() string { return BackendMemory }

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

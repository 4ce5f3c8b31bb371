package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/gridshift/pkg/errors"
)

// Memory keeps pages in a map. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{pages: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.pages[id]
	if !ok {
		return nil, notFound(id)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Put(_ context.Context, id string, data []byte) error {
	if err := errors.ValidatePageID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[id] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, id)
	return nil
}

func (m *Memory) List(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.pages))
	for id := range m.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)

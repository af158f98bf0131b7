package store

import (
	"context"
	"fmt"
	"slices"
)

// MemorySlot is a map-backed Slot. Setting a Fail* field makes the matching
// operation return that error, which is how callers simulate a full or
// sandboxed storage backend.
type MemorySlot struct {
	values map[string][]byte
	writes int

	FailGet   error
	FailPut   error
	FailProbe error
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string][]byte{}}
}

func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.FailGet != nil {
		return nil, false, m.FailGet
	}
	v, ok := m.values[key]
	return slices.Clone(v), ok, nil
}

func (m *MemorySlot) Put(_ context.Context, key string, value []byte) error {
	if m.FailPut != nil {
		return fmt.Errorf("put %s: %w", key, m.FailPut)
	}
	m.values[key] = slices.Clone(value)
	m.writes++
	return nil
}

func (m *MemorySlot) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *MemorySlot) Probe(ctx context.Context) error {
	if m.FailProbe != nil {
		return m.FailProbe
	}
	if m.FailPut != nil {
		return fmt.Errorf("probe: %w", m.FailPut)
	}
	return nil
}

func (m *MemorySlot) Close() error { return nil }

// Writes reports how many successful Puts the slot has seen.
func (m *MemorySlot) Writes() int { return m.writes }

// Has reports whether key is present.
func (m *MemorySlot) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/theirongolddev/wishjar/internal/model"
)

// Memory is a process-local Store. Records are deep-copied on the way in and out.
type Memory struct {
	mu      sync.RWMutex
	records map[string]model.SavingsRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]model.SavingsRecord)}
}

// Fetch implements Store.
func (m *Memory) Fetch(_ context.Context, userKey string) (*model.SavingsRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[userKey]
	if !ok {
		return nil, nil
	}
	cp := rec.Clone()
	return &cp, nil
}

// Upsert implements Store.
func (m *Memory) Upsert(_ context.Context, rec model.SavingsRecord) error {
	if rec.UserKey == "" {
		return errors.New("memory store: record has no user key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.UserKey] = rec.Clone()
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// Count implements Counter.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

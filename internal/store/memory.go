package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Used when no database is configured
// and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]Snapshot
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]Snapshot),
		now:   time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), snap.Payload...), nil
}

func (m *MemoryStore) Save(_ context.Context, slot string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = Snapshot{
		Slot:      slot,
		Payload:   append([]byte(nil), payload...),
		UpdatedAt: m.now().UTC(),
	}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for slot, snap := range m.slots {
		if snap.UpdatedAt.Before(before) {
			delete(m.slots, slot)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Stats(_ context.Context) (*SnapshotStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &SnapshotStats{Total: int64(len(m.slots))}
	for _, snap := range m.slots {
		ts := snap.UpdatedAt
		if stats.Oldest == nil || ts.Before(*stats.Oldest) {
			stats.Oldest = &ts
		}
		if stats.Newest == nil || ts.After(*stats.Newest) {
			stats.Newest = &ts
		}
	}
	return stats, nil
}

func (m *MemoryStore) Close() error { return nil }

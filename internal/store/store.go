package store

import (
	"context"
	"time"
)

// Snapshot is one persisted session slot.
type Snapshot struct {
	Slot      string    `json:"slot"`
	Payload   []byte    `json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SnapshotStats struct {
	Total  int64      `json:"total"`
	Oldest *time.Time `json:"oldest,omitempty"`
	Newest *time.Time `json:"newest,omitempty"`
}

// Store keeps the latest snapshot per slot. Load returns nil, nil for an
// empty slot; Save overwrites unconditionally.
type Store interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, payload []byte) error
	Clear(ctx context.Context, slot string) error

	// DeleteExpired removes every slot not written since before.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	Stats(ctx context.Context) (*SnapshotStats, error)

	Close() error
}

package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySnapshotRepository keeps snapshots in process memory. Used by tests
// and when the service runs without a database DSN.
type MemorySnapshotRepository struct {
	mu    sync.Mutex
	slots map[uuid.UUID][]byte
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{slots: make(map[uuid.UUID][]byte)}
}

func (r *MemorySnapshotRepository) Load(_ context.Context, sessionID uuid.UUID) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.slots[sessionID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (r *MemorySnapshotRepository) Save(_ context.Context, sessionID uuid.UUID, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	r.slots[sessionID] = stored
	return nil
}

func (r *MemorySnapshotRepository) Delete(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, sessionID)
	return nil
}

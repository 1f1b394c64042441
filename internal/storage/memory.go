package storage

import (
	"context"
	"sync"
)

// MemoryAdapter keeps the snapshot as process-lifetime state. Save always
// succeeds but nothing survives a restart, and the state is not shared with
// other instances; deployments using it must run single-instance.
//
// Load and Save both deep-copy, so a caller transforming a loaded snapshot
// never aliases the stored one: updates only become visible through Save.
type MemoryAdapter struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{snap: NewSnapshot()}
}

func (m *MemoryAdapter) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Clone(), nil
}

func (m *MemoryAdapter) Save(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}

func (m *MemoryAdapter) Durable() bool { return false }

func (m *MemoryAdapter) Close(ctx context.Context) error { return nil }

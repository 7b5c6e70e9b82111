// Package store provides EntryStore implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/payments-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (the default backend)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries map[engine.TxID]engine.LedgerEntry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[engine.TxID]engine.LedgerEntry)}
}

// Record inserts a new entry. Insert-only: an existing id rejects.
func (m *Memory) Record(_ context.Context, e engine.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[e.Tx]; ok {
		return fmt.Errorf("tx %d: %w", e.Tx, engine.ErrDuplicateTransaction)
	}
	m.entries[e.Tx] = e
	return nil
}

func (m *Memory) Lookup(_ context.Context, tx engine.TxID) (engine.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[tx]
	if !ok {
		return engine.LedgerEntry{}, fmt.Errorf("tx %d: %w", tx, engine.ErrUnknownTransaction)
	}
	return e, nil
}

func (m *Memory) SetState(_ context.Context, tx engine.TxID, state engine.DisputeState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[tx]
	if !ok {
		return fmt.Errorf("tx %d: %w", tx, engine.ErrUnknownTransaction)
	}
	e.State = state
	m.entries[tx] = e
	return nil
}

// Len returns the number of recorded entries. Test helper.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

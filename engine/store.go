/*
store.go - Persistence interface for the transaction ledger

PURPOSE:
  Defines the interface between the dispute logic and wherever ledger
  entries live. The engine only ever talks to the Ledger (ledger.go); the
  Ledger talks to an EntryStore.

CONTRACT:
  - Record(): insert-only. An existing transaction id is never overwritten;
    the write is rejected instead. Duplicate ids are a data-corruption
    signal from the feed.
  - Entries are never deleted. The full history of monetary movement stays
    addressable for the whole run so a resolve/chargeback can find its
    deposit at any later point in the stream.
  - SetState(): the single permitted mutation. A ledger entry is immutable
    except for its dispute state.

IMPLEMENTATIONS:
  - engine/store/memory.go: in-memory map (default)
  - store/sqlite/sqlite.go:  SQLite, ":memory:" or on-disk scratch file

EXAMPLE:
  store := store.NewMemory()
  ledger := engine.NewLedger(store)

SEE ALSO:
  - ledger.go: transition rules layered on top of this interface
*/
package engine

import "context"

// =============================================================================
// ENTRY STORE - Keyed persistence for LedgerEntry
// =============================================================================

// EntryStore persists ledger entries keyed by transaction id.
type EntryStore interface {
	// Record inserts a new entry. Fails with ErrDuplicateTransaction if the
	// transaction id already exists. This is the only way entries appear.
	Record(ctx context.Context, e LedgerEntry) error

	// Lookup returns the entry for tx, or ErrUnknownTransaction.
	Lookup(ctx context.Context, tx TxID) (LedgerEntry, error)

	// SetState updates the dispute state of an existing entry.
	// Fails with ErrUnknownTransaction if the entry does not exist.
	SetState(ctx context.Context, tx TxID, state DisputeState) error
}

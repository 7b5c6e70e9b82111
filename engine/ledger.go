/*
ledger.go - Transaction ledger and dispute state machine

PURPOSE:
  The Ledger is the memory of every accepted deposit and withdrawal, and
  the owner of the dispute lifecycle. A dispute/resolve/chargeback record
  carries no amount of its own; it references a transaction id here and the
  amount is recovered from the stored entry.

TRANSITION TABLE (state x event -> new state):

  | State       | dispute    | resolve    | chargeback    |
  |-------------|------------|------------|---------------|
  | normal      | disputed   | reject     | reject        |
  | disputed    | reject     | resolved   | charged_back  |
  | resolved    | reject     | reject     | reject        |
  | charged_back| reject     | reject     | reject        |

  Any cell not listed above rejects with ErrInvalidDisputeTransition and
  has no side effect. Resolved and charged_back are terminal: a transaction
  can go through the dispute cycle at most once.

OWNERSHIP:
  A client may only act on its own transactions. A transition referencing
  another client's entry is rejected as an invalid transition (the feed is
  either corrupt or hostile; either way the balances stay untouched).

SEE ALSO:
  - store.go: persistence underneath
  - engine.go: applies the balance deltas after a successful transition
*/
package engine

import "context"

// =============================================================================
// DISPUTE EVENTS
// =============================================================================

// DisputeEvent is one of the three lifecycle events a record can apply to an
// existing ledger entry.
type DisputeEvent string

const (
	EventDispute    DisputeEvent = "dispute"
	EventResolve    DisputeEvent = "resolve"
	EventChargeback DisputeEvent = "chargeback"
)

// transitions is the legal (state, event) -> state table. Absence means
// reject.
var transitions = map[DisputeState]map[DisputeEvent]DisputeState{
	StateNormal: {
		EventDispute: StateDisputed,
	},
	StateDisputed: {
		EventResolve:    StateResolved,
		EventChargeback: StateChargedBack,
	},
}

// NextState returns the state reached by applying event in state, or false
// if the transition is illegal.
func NextState(state DisputeState, event DisputeEvent) (DisputeState, bool) {
	next, ok := transitions[state][event]
	return next, ok
}

// =============================================================================
// LEDGER - EntryStore plus the transition rules
// =============================================================================

type Ledger struct {
	store EntryStore
}

func NewLedger(store EntryStore) *Ledger {
	return &Ledger{store: store}
}

// Record inserts the entry with its dispute lifecycle at the start.
// Fails with ErrDuplicateTransaction if the id already exists.
func (l *Ledger) Record(ctx context.Context, e LedgerEntry) error {
	e.State = StateNormal
	return l.store.Record(ctx, e)
}

// Lookup returns the entry for tx, or ErrUnknownTransaction.
func (l *Ledger) Lookup(ctx context.Context, tx TxID) (LedgerEntry, error) {
	return l.store.Lookup(ctx, tx)
}

// Transition applies event to the entry referenced by tx on behalf of
// client, enforcing ownership and the transition table. On success the
// updated entry is returned so the caller can apply its balance effect.
// On any rejection nothing is mutated.
func (l *Ledger) Transition(ctx context.Context, tx TxID, client ClientID, event DisputeEvent) (LedgerEntry, error) {
	entry, err := l.store.Lookup(ctx, tx)
	if err != nil {
		return LedgerEntry{}, err
	}
	if entry.Client != client {
		return LedgerEntry{}, &ClientMismatchError{Tx: tx, EntryClient: entry.Client, Client: client}
	}

	next, ok := NextState(entry.State, event)
	if !ok {
		return LedgerEntry{}, &InvalidTransitionError{Tx: tx, State: entry.State, Event: event}
	}

	if err := l.store.SetState(ctx, tx, next); err != nil {
		return LedgerEntry{}, err
	}
	entry.State = next
	return entry, nil
}

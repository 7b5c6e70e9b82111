/*
accounts.go - Account state and the account book

PURPOSE:
  Account holds one client's balances; AccountBook is the ClientID->Account
  map the engine mutates while replaying the stream.

INVARIANTS:
  - Total is always derived as Available + Held. It is never stored, so it
    cannot drift.
  - Locked is derived as LockCount > 0. The counter tracks currently-open
    disputes: each dispute increments it, each resolve/chargeback
    decrements it (floor 0). One resolve cannot unlock an account that
    still has another dispute open.
  - Accounts are created lazily by the first accepted deposit and never
    deleted. A withdrawal or dispute event can therefore never be the first
    thing an account sees, which guarantees every account's first observed
    available balance is positive.

LOCK SEMANTICS:
  Lock state is report-only. Deposits and withdrawals are not blocked while
  an account is locked; the counter exists solely to feed the "locked"
  column of the output.

SEE ALSO:
  - engine.go: the only writer of this state
  - report.go: snapshots read from here at end of run
*/
package engine

import "sort"

// =============================================================================
// ACCOUNT
// =============================================================================

type Account struct {
	Client    ClientID
	Available Amount
	Held      Amount
	LockCount uint32
}

// Total is Available + Held, always derived.
func (a *Account) Total() Amount { return a.Available.Add(a.Held) }

// Locked reports whether any dispute is currently open against the account.
func (a *Account) Locked() bool { return a.LockCount > 0 }

func (a *Account) incrementLock() {
	// Saturate rather than wrap. ^uint32(0) open disputes is not a real run.
	if a.LockCount < ^uint32(0) {
		a.LockCount++
	}
}

func (a *Account) decrementLock() {
	if a.LockCount > 0 {
		a.LockCount--
	}
}

// =============================================================================
// ACCOUNT BOOK
// =============================================================================

// AccountBook owns every account for the lifetime of one run. It is not
// safe for concurrent use; the engine is its single owner.
type AccountBook struct {
	accounts map[ClientID]*Account
}

func NewAccountBook() *AccountBook {
	return &AccountBook{accounts: make(map[ClientID]*Account)}
}

// Get returns the account for client, or nil if it has never been created.
func (b *AccountBook) Get(client ClientID) *Account {
	return b.accounts[client]
}

// Create materializes an account with the given opening available balance.
// Only the deposit path calls this.
func (b *AccountBook) Create(client ClientID, available Amount) *Account {
	a := &Account{Client: client, Available: available, Held: Zero()}
	b.accounts[client] = a
	return a
}

// Len returns the number of known accounts.
func (b *AccountBook) Len() int { return len(b.accounts) }

// Clients returns all known client ids in ascending order. Iteration order
// of the underlying map is not deterministic; reports must be.
func (b *AccountBook) Clients() []ClientID {
	ids := make([]ClientID, 0, len(b.accounts))
	for id := range b.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

/*
Package engine implements the replay core: the account/transaction data
model, the dispute state machine, and the sequential engine that folds an
ordered record stream into final account balances.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClientID / TxID: type-safe identifiers (widths match the input feed)
  - Kind: closed variant over the five record kinds
  - Record: one parsed, validated input line
  - LedgerEntry: the remembered form of an accepted deposit/withdrawal
  - DisputeState: lifecycle of a LedgerEntry under dispute

DESIGN PRINCIPLES:
  1. Exhaustiveness: Kind is dispatched with a closed switch in engine.go;
     an unknown kind never reaches the engine (the ingestion adapter
     rejects it as a parse failure).
  2. Precision: all money is Amount (see amount.go), never float.
  3. Two independent maps: TxID->LedgerEntry and ClientID->Account are kept
     in separate owners (Ledger, AccountBook) and cross-referenced by id
     only - no stored pointers between them.

SEE ALSO:
  - ledger.go: dispute state machine over LedgerEntry
  - accounts.go: Account and AccountBook
  - engine.go: per-record effect rules
*/
package engine

// =============================================================================
// IDENTIFIERS
// =============================================================================

// ClientID identifies an account. Opaque, not required to be contiguous.
type ClientID uint16

// TxID identifies a deposit or withdrawal. Unique across one run.
// Dispute/resolve/chargeback records reference an existing TxID and never
// introduce a new one.
type TxID uint32

// =============================================================================
// RECORD KINDS
// =============================================================================

type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind maps input text to a Kind. Unknown text is a parse failure.
func ParseKind(text string) (Kind, bool) {
	switch Kind(text) {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return Kind(text), true
	}
	return "", false
}

// Monetary reports whether records of this kind carry their own amount and
// create a ledger entry.
func (k Kind) Monetary() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// =============================================================================
// RECORD - One parsed input line
// =============================================================================

// Record is the engine-facing form of one input line. For monetary kinds
// Amount is the parsed value; for dispute/resolve/chargeback it is zero and
// ignored (the amount is recovered from the referenced ledger entry).
type Record struct {
	Kind   Kind
	Client ClientID
	Tx     TxID
	Amount Amount
}

// =============================================================================
// LEDGER ENTRY - Accepted deposit/withdrawal plus its dispute lifecycle
// =============================================================================

// DisputeState is the lifecycle of a LedgerEntry. StateResolved and
// StateChargedBack are terminal.
type DisputeState string

const (
	StateNormal      DisputeState = "normal"
	StateDisputed    DisputeState = "disputed"
	StateResolved    DisputeState = "resolved"
	StateChargedBack DisputeState = "charged_back"
)

// ParseDisputeState maps stored text back to a DisputeState. Used by
// persistence implementations.
func ParseDisputeState(text string) (DisputeState, bool) {
	switch DisputeState(text) {
	case StateNormal, StateDisputed, StateResolved, StateChargedBack:
		return DisputeState(text), true
	}
	return "", false
}

// LedgerEntry is the remembered form of one accepted deposit or withdrawal.
// Entries are never deleted; State is the only field that ever changes.
type LedgerEntry struct {
	Tx     TxID
	Client ClientID
	Kind   Kind // KindDeposit or KindWithdrawal
	Amount Amount
	State  DisputeState
}

/*
errors.go - Centralized error types for the replay engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engine distinguishes two tiers:

  1. Per-record, recoverable - the record is skipped, the run continues.
     Everything below except stream failures falls in this tier.
  2. Fatal - the input stream itself cannot be read. Nothing here models
     that; it surfaces as whatever the source returns.

USAGE:
  Callers classify with IsRecordError:

    if engine.IsRecordError(err) {
        // skip record, keep going
    }

SEE ALSO:
  - ledger.go: returns transition/lookup errors
  - engine.go: returns effect-precondition errors, classifies in Run
  - csvio: wraps line-level parse failures as RecordParseError
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedRecord is returned for an input line the ingestion adapter
	// cannot turn into a Record (wrong field count, bad ids, unknown kind).
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMalformedAmount is returned when amount text is non-numeric, carries
	// more than 4 fractional digits, or exceeds the representable range.
	ErrMalformedAmount = errors.New("malformed amount")

	// ErrDuplicateTransaction is returned when a deposit/withdrawal reuses an
	// existing transaction id. Duplicates signal corrupt input; the existing
	// entry is never overwritten.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// ErrInvalidAmount is returned for a zero or negative deposit/withdrawal.
	ErrInvalidAmount = errors.New("invalid amount: must be positive")

	// ErrUnknownAccount is returned when a withdrawal references a client
	// that has never had an accepted deposit.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the
	// available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownTransaction is returned when a dispute/resolve/chargeback
	// references a transaction id the ledger has never accepted.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrInvalidDisputeTransition is returned when a dispute event is not
	// legal from the entry's current state, or when the referencing record's
	// client does not own the referenced entry.
	ErrInvalidDisputeTransition = errors.New("invalid dispute transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError details a withdrawal rejected for lack of funds.
type InsufficientFundsError struct {
	Client    ClientID
	Available Amount
	Requested Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for client %d: available %s, requested %s",
		e.Client, e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// InvalidTransitionError details a dispute event rejected by the transition
// table. The balances were not touched.
type InvalidTransitionError struct {
	Tx    TxID
	State DisputeState
	Event DisputeEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transaction %d: %s not allowed in state %s", e.Tx, e.Event, e.State)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidDisputeTransition }

// ClientMismatchError details a dispute event whose record client does not
// own the referenced entry. Classified as an invalid transition.
type ClientMismatchError struct {
	Tx          TxID
	EntryClient ClientID
	Client      ClientID
}

func (e *ClientMismatchError) Error() string {
	return fmt.Sprintf("transaction %d belongs to client %d, referenced by client %d",
		e.Tx, e.EntryClient, e.Client)
}

func (e *ClientMismatchError) Unwrap() error { return ErrInvalidDisputeTransition }

// RecordParseError wraps a line-level failure from the ingestion adapter.
// Err unwraps to ErrMalformedRecord or ErrMalformedAmount.
type RecordParseError struct {
	Line int
	Err  error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordParseError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecordError reports whether err is a per-record rejection: the record is
// skipped and the run continues. Anything else aborts the run.
func IsRecordError(err error) bool {
	return errors.Is(err, ErrMalformedRecord) ||
		errors.Is(err, ErrMalformedAmount) ||
		errors.Is(err, ErrDuplicateTransaction) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrUnknownTransaction) ||
		errors.Is(err, ErrInvalidDisputeTransition)
}

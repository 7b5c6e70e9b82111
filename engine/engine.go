/*
engine.go - The sequential replay engine

PURPOSE:
  Consumes records in strict input order and applies each one to the
  account book and the transaction ledger. Later records causally depend on
  earlier ones (a dispute references a prior deposit), so order is never
  reordered or parallelized.

PER-RECORD EFFECT TABLE:

  | Kind       | Precondition                        | Effect                                      |
  |------------|-------------------------------------|---------------------------------------------|
  | deposit    | amt > 0, fresh tx id                | create-or-credit available                  |
  | withdrawal | account exists, amt > 0, avail>=amt | debit available                             |
  | dispute    | owned entry, normal->disputed       | held += amt; available -= amt; lock++       |
  | resolve    | disputed->resolved                  | held -= amt; available += amt; lock--       |
  | chargeback | disputed->charged_back              | held -= amt; lock-- (total drops)           |

  Preconditions are checked before anything is written, so a rejected
  record has zero effect on balances and ledger alike.

NEGATIVE BALANCES:
  Withdrawals are strictly funds-checked, so ordinary overdraft cannot
  happen. Dispute deltas, however, apply unconditionally once the
  transition is legal - disputing a deposit after its funds were withdrawn
  drives available negative. That is deliberate clawback modeling, not a
  bug.

ERROR POLICY:
  One bad record never aborts the run. Run skips anything IsRecordError
  classifies as recoverable, reports it to the diagnostics logger, and
  keeps going. Only a stream-level failure (the source itself breaking)
  propagates out.

SEE ALSO:
  - ledger.go: transition legality
  - accounts.go: the state being mutated
  - report.go: end-of-run snapshots
*/
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// =============================================================================
// RECORD SOURCE
// =============================================================================

// RecordSource yields parsed records in input order. Next returns io.EOF at
// end of stream. A per-line parse failure is returned as an error that
// IsRecordError recognizes; the source must remain usable afterwards so the
// run can continue with the next line.
type RecordSource interface {
	Next() (Record, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine replays one record stream. Construct one per run and discard it;
// there is no global state.
type Engine struct {
	ledger   *Ledger
	accounts *AccountBook
	log      *zap.Logger

	applied  int
	rejected int
}

// New builds an engine over the given entry store. A nil logger disables
// diagnostics.
func New(store EntryStore, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		ledger:   NewLedger(store),
		accounts: NewAccountBook(),
		log:      log,
	}
}

// Accounts exposes the account book for snapshotting.
func (e *Engine) Accounts() *AccountBook { return e.accounts }

// Run folds the whole stream. Recoverable record errors are logged and
// skipped; any other error aborts the run and is returned.
func (e *Engine) Run(ctx context.Context, src RecordSource) error {
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			e.log.Info("replay complete",
				zap.Int("applied", e.applied),
				zap.Int("rejected", e.rejected),
				zap.Int("accounts", e.accounts.Len()))
			return nil
		}
		if err != nil {
			if !IsRecordError(err) {
				return fmt.Errorf("reading record stream: %w", err)
			}
			e.reject(Record{}, err)
			continue
		}

		if err := e.Apply(ctx, rec); err != nil {
			if !IsRecordError(err) {
				return err
			}
			e.reject(rec, err)
			continue
		}
		e.applied++
	}
}

// Apply processes a single record. A returned error satisfying
// IsRecordError means the record was rejected with zero effect.
func (e *Engine) Apply(ctx context.Context, rec Record) error {
	switch rec.Kind {
	case KindDeposit:
		return e.applyDeposit(ctx, rec)
	case KindWithdrawal:
		return e.applyWithdrawal(ctx, rec)
	case KindDispute:
		return e.applyDispute(ctx, rec)
	case KindResolve:
		return e.applyResolve(ctx, rec)
	case KindChargeback:
		return e.applyChargeback(ctx, rec)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, rec.Kind)
	}
}

// =============================================================================
// MONETARY RECORDS
// =============================================================================

func (e *Engine) applyDeposit(ctx context.Context, rec Record) error {
	if !rec.Amount.IsPositive() {
		return fmt.Errorf("deposit tx %d: %w", rec.Tx, ErrInvalidAmount)
	}

	// Record first: a duplicate id must reject before any balance moves.
	// All other preconditions were already checked, so the entry and the
	// credit below succeed or fail together.
	entry := LedgerEntry{Tx: rec.Tx, Client: rec.Client, Kind: KindDeposit, Amount: rec.Amount}
	if err := e.ledger.Record(ctx, entry); err != nil {
		return err
	}

	if acct := e.accounts.Get(rec.Client); acct != nil {
		acct.Available = acct.Available.Add(rec.Amount)
	} else {
		e.accounts.Create(rec.Client, rec.Amount)
	}
	return nil
}

func (e *Engine) applyWithdrawal(ctx context.Context, rec Record) error {
	if !rec.Amount.IsPositive() {
		return fmt.Errorf("withdrawal tx %d: %w", rec.Tx, ErrInvalidAmount)
	}
	acct := e.accounts.Get(rec.Client)
	if acct == nil {
		return fmt.Errorf("withdrawal tx %d for client %d: %w", rec.Tx, rec.Client, ErrUnknownAccount)
	}
	if acct.Available.LessThan(rec.Amount) {
		return &InsufficientFundsError{Client: rec.Client, Available: acct.Available, Requested: rec.Amount}
	}

	entry := LedgerEntry{Tx: rec.Tx, Client: rec.Client, Kind: KindWithdrawal, Amount: rec.Amount}
	if err := e.ledger.Record(ctx, entry); err != nil {
		return err
	}

	acct.Available = acct.Available.Sub(rec.Amount)
	return nil
}

// =============================================================================
// DISPUTE LIFECYCLE RECORDS
// =============================================================================

func (e *Engine) applyDispute(ctx context.Context, rec Record) error {
	entry, err := e.ledger.Transition(ctx, rec.Tx, rec.Client, EventDispute)
	if err != nil {
		return err
	}
	acct := e.accounts.Get(entry.Client)
	if acct == nil {
		// Unreachable while Record precedes Transition for every entry,
		// since only an accepted deposit creates the account.
		return fmt.Errorf("dispute tx %d: %w", rec.Tx, ErrUnknownAccount)
	}

	acct.Held = acct.Held.Add(entry.Amount)
	acct.Available = acct.Available.Sub(entry.Amount)
	acct.incrementLock()
	return nil
}

func (e *Engine) applyResolve(ctx context.Context, rec Record) error {
	entry, err := e.ledger.Transition(ctx, rec.Tx, rec.Client, EventResolve)
	if err != nil {
		return err
	}
	acct := e.accounts.Get(entry.Client)
	if acct == nil {
		return fmt.Errorf("resolve tx %d: %w", rec.Tx, ErrUnknownAccount)
	}

	acct.Held = acct.Held.Sub(entry.Amount)
	acct.Available = acct.Available.Add(entry.Amount)
	acct.decrementLock()
	return nil
}

func (e *Engine) applyChargeback(ctx context.Context, rec Record) error {
	entry, err := e.ledger.Transition(ctx, rec.Tx, rec.Client, EventChargeback)
	if err != nil {
		return err
	}
	acct := e.accounts.Get(entry.Client)
	if acct == nil {
		return fmt.Errorf("chargeback tx %d: %w", rec.Tx, ErrUnknownAccount)
	}

	// Held funds leave the account entirely; available is untouched, so the
	// total drops by the charged-back amount.
	acct.Held = acct.Held.Sub(entry.Amount)
	acct.decrementLock()
	return nil
}

func (e *Engine) reject(rec Record, err error) {
	e.rejected++
	fields := []zap.Field{zap.Error(err)}
	if rec.Kind != "" {
		fields = append(fields,
			zap.String("kind", string(rec.Kind)),
			zap.Uint16("client", uint16(rec.Client)),
			zap.Uint32("tx", uint32(rec.Tx)))
	}
	e.log.Warn("record rejected", fields...)
}

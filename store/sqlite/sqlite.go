/*
Package sqlite provides a SQLite-backed implementation of the EntryStore
interface.

PURPOSE:
  Keeps the transaction ledger in SQLite instead of process memory. With
  the default ":memory:" DSN nothing outlives the run, which is the normal
  mode; an on-disk path turns the database into scratch space for inputs
  too large to hold as a Go map.

SCHEMA:
  entries: one row per accepted deposit/withdrawal, keyed by tx id.
  The amount is stored as decimal text, never as a float column, so the
  round trip is exact.

MUTATION CONTRACT:
  INSERT on Record, UPDATE of the state column on SetState, nothing else.
  No DELETE exists: ledger entries persist for the whole run so a late
  resolve/chargeback can always find its deposit.

WAL MODE:
  Opened with WAL and foreign keys on. The engine is single-threaded; the
  mutex is there because the store contract is safe-for-concurrent-use,
  not because the replay needs it.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  eng := engine.New(store, logger)

SEE ALSO:
  - engine/store.go: interface definition
  - engine/store/memory.go: in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payments-engine/engine"
)

// Store implements engine.EntryStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dsn. Use ":memory:" for an
// ephemeral ledger.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection only: with ":memory:" every pooled connection would
	// otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		tx     INTEGER PRIMARY KEY,
		client INTEGER NOT NULL,
		kind   TEXT NOT NULL,
		amount TEXT NOT NULL,
		state  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_client ON entries(client);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a new entry. Insert-only; an existing tx id rejects.
func (s *Store) Record(ctx context.Context, e engine.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entries WHERE tx = ?)`, int64(e.Tx)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check entry: %w", err)
	}
	if exists {
		return fmt.Errorf("tx %d: %w", e.Tx, engine.ErrDuplicateTransaction)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (tx, client, kind, amount, state) VALUES (?, ?, ?, ?, ?)`,
		int64(e.Tx), int64(e.Client), string(e.Kind), e.Amount.Value.String(), string(e.State))
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, tx engine.TxID) (engine.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		client int64
		kind   string
		amount string
		state  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT client, kind, amount, state FROM entries WHERE tx = ?`, int64(tx)).
		Scan(&client, &kind, &amount, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.LedgerEntry{}, fmt.Errorf("tx %d: %w", tx, engine.ErrUnknownTransaction)
	}
	if err != nil {
		return engine.LedgerEntry{}, fmt.Errorf("failed to load entry: %w", err)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return engine.LedgerEntry{}, fmt.Errorf("corrupt amount for tx %d: %w", tx, err)
	}
	st, ok := engine.ParseDisputeState(state)
	if !ok {
		return engine.LedgerEntry{}, fmt.Errorf("corrupt state %q for tx %d", state, tx)
	}

	return engine.LedgerEntry{
		Tx:     tx,
		Client: engine.ClientID(client),
		Kind:   engine.Kind(kind),
		Amount: engine.Amount{Value: value},
		State:  st,
	}, nil
}

// SetState updates the dispute state, the single permitted mutation.
func (s *Store) SetState(ctx context.Context, tx engine.TxID, state engine.DisputeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET state = ? WHERE tx = ?`, string(state), int64(tx))
	if err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tx %d: %w", tx, engine.ErrUnknownTransaction)
	}
	return nil
}

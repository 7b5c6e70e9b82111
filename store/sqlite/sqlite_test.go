package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payments-engine/engine"
	"github.com/warp/payments-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(tx uint32, client uint16, kind engine.Kind, amount string) engine.LedgerEntry {
	return engine.LedgerEntry{
		Tx:     engine.TxID(tx),
		Client: engine.ClientID(client),
		Kind:   kind,
		Amount: engine.MustParseAmount(amount),
		State:  engine.StateNormal,
	}
}

// =============================================================================
// STORE CONTRACT
// =============================================================================

func TestSQLite_RecordAndLookup_ExactRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, entry(1, 7, engine.KindDeposit, "10.0001")))

	got, err := s.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, engine.TxID(1), got.Tx)
	assert.Equal(t, engine.ClientID(7), got.Client)
	assert.Equal(t, engine.KindDeposit, got.Kind)
	assert.Equal(t, engine.StateNormal, got.State)
	assert.True(t, got.Amount.Equal(engine.MustParseAmount("10.0001")),
		"amount must round-trip exactly through text storage")
}

func TestSQLite_DuplicateTx_Rejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, entry(1, 7, engine.KindDeposit, "10.0")))

	err := s.Record(ctx, entry(1, 9, engine.KindWithdrawal, "1.0"))
	assert.ErrorIs(t, err, engine.ErrDuplicateTransaction)

	got, err := s.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, engine.ClientID(7), got.Client, "original entry untouched")
}

func TestSQLite_LookupUnknown(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Lookup(context.Background(), 404)
	assert.ErrorIs(t, err, engine.ErrUnknownTransaction)
}

func TestSQLite_SetState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, entry(1, 7, engine.KindDeposit, "10.0")))
	require.NoError(t, s.SetState(ctx, 1, engine.StateDisputed))

	got, err := s.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, engine.StateDisputed, got.State)
}

func TestSQLite_SetState_UnknownTx(t *testing.T) {
	s := newTestStore(t)

	err := s.SetState(context.Background(), 404, engine.StateDisputed)
	assert.ErrorIs(t, err, engine.ErrUnknownTransaction)
}

// =============================================================================
// ENGINE OVER SQLITE
// =============================================================================

func TestSQLite_BacksAFullReplay(t *testing.T) {
	// The engine behaves identically over the SQLite store: scenario E.

	s := newTestStore(t)
	e := engine.New(s, nil)
	ctx := context.Background()

	recs := []engine.Record{
		{Kind: engine.KindDeposit, Client: 1, Tx: 1, Amount: engine.MustParseAmount("10.0")},
		{Kind: engine.KindWithdrawal, Client: 1, Tx: 2, Amount: engine.MustParseAmount("8.0")},
		{Kind: engine.KindDispute, Client: 1, Tx: 1},
	}
	for _, rec := range recs {
		require.NoError(t, e.Apply(ctx, rec))
	}

	snaps := e.Snapshots()
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Available.Equal(engine.MustParseAmount("-8.0")))
	assert.True(t, snaps[0].Held.Equal(engine.MustParseAmount("10.0")))
	assert.True(t, snaps[0].Total.Equal(engine.MustParseAmount("2.0")))
	assert.True(t, snaps[0].Locked)
}

/*
report.go - End-of-run account snapshots

PURPOSE:
  Once the stream is exhausted, each known account is reduced to one
  immutable Snapshot row. Ordering is ascending ClientID: map iteration
  order is random and the output must be stable for diffing and tests.

SEE ALSO:
  - accounts.go: the state being snapshotted
  - csvio/writer.go: renders snapshots as the output CSV
*/
package engine

// Snapshot is one account's final reported state. Total and Locked are
// derived at snapshot time, never stored.
type Snapshot struct {
	Client    ClientID
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
}

// Snapshots reduces the account book to report rows, ascending by client.
func (e *Engine) Snapshots() []Snapshot {
	ids := e.accounts.Clients()
	snaps := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		a := e.accounts.Get(id)
		snaps = append(snaps, Snapshot{
			Client:    a.Client,
			Available: a.Available,
			Held:      a.Held,
			Total:     a.Total(),
			Locked:    a.Locked(),
		})
	}
	return snaps
}

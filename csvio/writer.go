/*
writer.go - Account report emitter

PURPOSE:
  Renders the end-of-run snapshots as the output CSV:

    client,available,held,total,locked
    1,7.0000,0.0000,7.0000,false

  Amounts carry exactly 4 fractional digits; locked is a literal boolean
  token. Row order is whatever order the snapshots arrive in - the engine
  already emits them ascending by client id.
*/
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/warp/payments-engine/engine"
)

// WriteReport writes the report header and one row per snapshot.
func WriteReport(w io.Writer, snaps []engine.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, s := range snaps {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

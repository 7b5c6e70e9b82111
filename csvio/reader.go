/*
Package csvio adapts the engine to its CSV boundary: the input record
stream on one side (reader.go) and the account report on the other
(writer.go).

PURPOSE (reader.go):
  Turns delimited text lines into engine.Record values, one at a time, in
  input order. This adapter owns every textual concern - trimming
  insignificant whitespace, field counting, id and amount parsing - so the
  engine only ever sees validated records.

ERROR TIERS:
  - A malformed line (bad ids, unknown type, missing amount, quoting
    errors) is a per-record failure: Next returns an error that
    engine.IsRecordError recognizes and the reader stays usable, so the
    run skips the line and continues.
  - A broken header or a failing underlying reader is a stream failure:
    the whole pass aborts.

INPUT FORMAT:
  Header "type,client,tx,amount". The amount field is present only for
  deposits and withdrawals; for dispute/resolve/chargeback rows a trailing
  amount is ignored if supplied. Fields may be padded with whitespace.
*/
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/warp/payments-engine/engine"
)

// =============================================================================
// READER - CSV ingestion adapter implementing engine.RecordSource
// =============================================================================

type Reader struct {
	csv        *csv.Reader
	line       int
	headerRead bool
}

// NewReader wraps r. The header row is consumed and validated on the first
// call to Next.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Rows legitimately have 3 or 4 fields; counts are checked here instead.
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next returns the next parsed record, io.EOF at end of stream, a
// recoverable *engine.RecordParseError for a malformed line, or a fatal
// error if the stream itself cannot be read.
func (r *Reader) Next() (engine.Record, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return engine.Record{}, err
		}
	}

	for {
		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return engine.Record{}, io.EOF
		}
		r.line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// Quoting/structure damage confined to this row.
				return engine.Record{}, r.malformed(fmt.Errorf("%w: %v", engine.ErrMalformedRecord, err))
			}
			return engine.Record{}, fmt.Errorf("reading input: %w", err)
		}

		// Tolerate blank separator lines.
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		rec, err := r.parse(fields)
		if err != nil {
			return engine.Record{}, r.malformed(err)
		}
		return rec, nil
	}
}

// readHeader consumes and validates the header row. An absent or alien
// header means the stream as a whole is not in the expected format, which
// is fatal.
func (r *Reader) readHeader() error {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		// Deliberately not wrapping io.EOF: a missing header is a broken
		// stream, not a clean end of one.
		return errors.New("reading header: input is empty")
	}
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	r.line++
	r.headerRead = true

	want := []string{"type", "client", "tx", "amount"}
	for i, name := range want {
		if i >= len(fields) {
			// A three-column header (no amount) is acceptable.
			if name == "amount" {
				return nil
			}
			return fmt.Errorf("invalid header: missing %q column", name)
		}
		if strings.TrimSpace(fields[i]) != name {
			return fmt.Errorf("invalid header: column %d is %q, want %q", i, strings.TrimSpace(fields[i]), name)
		}
	}
	return nil
}

func (r *Reader) parse(fields []string) (engine.Record, error) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 || len(fields) > 4 {
		return engine.Record{}, fmt.Errorf("%w: %d fields", engine.ErrMalformedRecord, len(fields))
	}

	kind, ok := engine.ParseKind(fields[0])
	if !ok {
		return engine.Record{}, fmt.Errorf("%w: unknown type %q", engine.ErrMalformedRecord, fields[0])
	}

	client, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return engine.Record{}, fmt.Errorf("%w: bad client id %q", engine.ErrMalformedRecord, fields[1])
	}
	tx, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return engine.Record{}, fmt.Errorf("%w: bad tx id %q", engine.ErrMalformedRecord, fields[2])
	}

	rec := engine.Record{
		Kind:   kind,
		Client: engine.ClientID(client),
		Tx:     engine.TxID(tx),
	}

	if kind.Monetary() {
		if len(fields) < 4 || fields[3] == "" {
			return engine.Record{}, fmt.Errorf("%w: %s without amount", engine.ErrMalformedRecord, kind)
		}
		amount, err := engine.ParseAmount(fields[3])
		if err != nil {
			return engine.Record{}, err
		}
		rec.Amount = amount
	}
	// Dispute/resolve/chargeback rows reference an amount held in the
	// ledger; any amount field they carry is ignored.

	return rec, nil
}

func (r *Reader) malformed(err error) error {
	return &engine.RecordParseError{Line: r.line, Err: err}
}

/*
main.go - Application entry point

PURPOSE:
  Replays a CSV transaction stream against client accounts and writes the
  final balances to stdout.

USAGE:
  payments [flags] <input.csv>

COMMAND-LINE FLAGS:
  -store   Ledger store backend: "memory" or "sqlite" (default: memory)
  -db      SQLite DSN when -store=sqlite (default: ":memory:")
           Point at a file to spill the ledger to disk for huge inputs.
  -quiet   Suppress per-record diagnostics on stderr

EXIT CODES:
  0  the full pass completed, however many records were rejected
  1  the input stream could not be opened or read as a whole

OUTPUT DISCIPLINE:
  stdout carries only the report CSV; all diagnostics go to stderr, so
  "payments tx.csv > out.csv" always yields a clean report.

EXAMPLES:
  # Default in-memory run
  ./payments transactions.csv > accounts.csv

  # Large input, ledger spilled to a scratch database
  ./payments -store=sqlite -db=/tmp/ledger.db transactions.csv

ENVIRONMENT:
  No environment variables. All config via flags.

SEE ALSO:
  - engine/engine.go: replay rules
  - csvio/reader.go: input format
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/payments-engine/csvio"
	"github.com/warp/payments-engine/engine"
	memstore "github.com/warp/payments-engine/engine/store"
	"github.com/warp/payments-engine/store/sqlite"
)

func main() {
	// Flags
	storeKind := flag.String("store", "memory", `ledger store backend: "memory" or "sqlite"`)
	dbDSN := flag.String("db", ":memory:", "SQLite DSN when -store=sqlite")
	quiet := flag.Bool("quiet", false, "suppress per-record diagnostics")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input.csv>\n", os.Args[0])
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	logger := newLogger(*quiet)
	defer logger.Sync()

	if err := run(context.Background(), inputPath, *storeKind, *dbDSN, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

// newLogger builds the diagnostics sink: zap to stderr, tagged with a run
// id so interleaved runs can be told apart in aggregated logs.
func newLogger(quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		// Diagnostics are optional; the replay is not.
		return zap.NewNop()
	}
	return logger.With(zap.String("run_id", uuid.NewString()))
}

func run(ctx context.Context, inputPath, storeKind, dbDSN string, logger *zap.Logger) error {
	// Initialize store
	var entries engine.EntryStore
	switch storeKind {
	case "memory":
		entries = memstore.NewMemory()
	case "sqlite":
		s, err := sqlite.New(dbDSN)
		if err != nil {
			return fmt.Errorf("initializing ledger store: %w", err)
		}
		defer s.Close()
		entries = s
	default:
		return fmt.Errorf("unknown store backend %q", storeKind)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	eng := engine.New(entries, logger)
	if err := eng.Run(ctx, csvio.NewReader(in)); err != nil {
		return err
	}

	return csvio.WriteReport(os.Stdout, eng.Snapshots())
}

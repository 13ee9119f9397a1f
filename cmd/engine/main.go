// Command engine processes a transaction CSV and writes the final account
// states to stdout.
//
// Usage:
//
//	engine transactions.csv > accounts.csv
//
// Diagnostics go to stderr as JSON logs; set LOG_LEVEL=DEBUG to see every
// rejected transaction and skipped row.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/PaymentsHW/internal/dispatch"
	"github.com/fastprodman/PaymentsHW/internal/infra/logging"
	"github.com/fastprodman/PaymentsHW/internal/ingest"
	"github.com/fastprodman/PaymentsHW/internal/report"
	accmem "github.com/fastprodman/PaymentsHW/internal/repos/accounts/memory"
	txmem "github.com/fastprodman/PaymentsHW/internal/repos/txlog/memory"
	"github.com/fastprodman/PaymentsHW/internal/services/ledger"
	"github.com/fastprodman/PaymentsHW/pkg/envconf"
	"github.com/fastprodman/PaymentsHW/pkg/shutdownqueue"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: engine <transactions.csv>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running engine: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context, inputPath string) (retErr error) {
	cfg := new(engineConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(os.Stderr, cfg.LogLevel)
	slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	// The report owns stdout; register its flush so even an interrupted run
	// emits whatever was written.
	out := bufio.NewWriter(os.Stdout)
	shutdownqueue.Add(func(context.Context) error {
		ferr := out.Flush()
		if ferr != nil {
			return fmt.Errorf("flush report: %w", ferr)
		}

		return nil
	})

	svc := ledger.New(accmem.New(), txmem.New())
	pool := dispatch.New(svc, cfg.Workers)

	slog.Info("engine started", "input", inputPath, "workers", cfg.Workers)

	reader := ingest.NewReader(in)

	for {
		tx, rerr := reader.Next()
		if errors.Is(rerr, io.EOF) {
			break
		}

		if rerr != nil {
			pool.Close()
			return fmt.Errorf("read transactions: %w", rerr)
		}

		serr := pool.Submit(ctx, tx)
		if serr != nil {
			// Signal received: stop intake, drain what was already queued
			// and still emit a consistent report.
			slog.Warn("intake interrupted", "reason", serr)
			break
		}
	}

	stats := pool.Close()

	err = report.Write(out, svc.Snapshots())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	slog.Info("processing complete",
		"processed", stats.Processed,
		"rejected", stats.Rejected,
		"skipped_rows", reader.Skipped(),
	)

	return nil
}

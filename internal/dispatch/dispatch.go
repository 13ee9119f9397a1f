// Package dispatch fans a transaction stream out to a fixed set of workers
// while preserving per-client ordering.
//
// Each client id maps to exactly one worker, and each worker drains its own
// FIFO queue, so transactions for one client are applied in the order they
// were submitted. Transactions for different clients run fully in parallel.
package dispatch

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/PaymentsHW/internal/services/ledger"
)

const queueDepth = 256

// Processor applies a single transaction. Rejections come back as errors and
// are reported through the diagnostics log; they never stop the pool.
type Processor interface {
	Process(tx ledger.Transaction) error
}

// Stats counts the outcomes of a pool's run.
type Stats struct {
	Processed uint64
	Rejected  uint64
}

// Pool is a partitioned worker pool over a Processor.
type Pool struct {
	proc   Processor
	queues []chan ledger.Transaction
	g      *errgroup.Group

	processed atomic.Uint64
	rejected  atomic.Uint64
}

// New starts a pool with the given number of workers. A non-positive count
// defaults to GOMAXPROCS.
func New(proc Processor, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		proc:   proc,
		queues: make([]chan ledger.Transaction, workers),
		g:      &errgroup.Group{},
	}

	for i := range p.queues {
		q := make(chan ledger.Transaction, queueDepth)
		p.queues[i] = q

		p.g.Go(func() error {
			p.worker(q)
			return nil
		})
	}

	return p
}

func (p *Pool) worker(q <-chan ledger.Transaction) {
	for tx := range q {
		err := p.proc.Process(tx)
		if err != nil {
			p.rejected.Add(1)
			slog.Debug("transaction rejected",
				"kind", string(tx.Kind),
				"client", tx.Client,
				"tx", tx.ID,
				"reason", err,
			)

			continue
		}

		p.processed.Add(1)
	}
}

// Submit routes tx to the worker owning its client id, blocking while that
// worker's queue is full. It returns ctx.Err if the context is canceled
// first.
func (p *Pool) Submit(ctx context.Context, tx ledger.Transaction) error {
	q := p.queues[int(tx.Client)%len(p.queues)]

	select {
	case q <- tx:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake, waits for the workers to drain their queues and
// returns the run's counters. No Submit may be called after Close.
func (p *Pool) Close() Stats {
	for _, q := range p.queues {
		close(q)
	}

	_ = p.g.Wait() // workers only return nil

	return Stats{
		Processed: p.processed.Load(),
		Rejected:  p.rejected.Load(),
	}
}

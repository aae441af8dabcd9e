package dispatch

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"tilepress/internal/logging"
	"tilepress/internal/pathmap"
)

// Pool runs pending items through a fixed-size set of workers.
type Pool struct {
	mapper   *pathmap.Mapper
	strategy Strategy
	workers  int
	logger   *slog.Logger
}

// NewPool constructs a dispatcher. workers is clamped to
// [1, 2 x GOMAXPROCS]; zero or negative selects GOMAXPROCS.
func NewPool(mapper *pathmap.Mapper, strategy Strategy, workers int, logger *slog.Logger) *Pool {
	return &Pool{
		mapper:   mapper,
		strategy: strategy,
		workers:  clampWorkers(workers),
		logger:   logging.NewComponentLogger(logger, "dispatch"),
	}
}

// Workers returns the effective worker count.
func (p *Pool) Workers() int {
	return p.workers
}

func clampWorkers(n int) int {
	parallelism := runtime.GOMAXPROCS(0)
	if n <= 0 {
		n = parallelism
	}
	if ceiling := 2 * parallelism; n > ceiling {
		n = ceiling
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run drains pending through the worker pool and returns the aggregate
// tally. Each item is attempted exactly once; a worker that is mid-item
// finishes that item even when ctx is cancelled, and cancellation only
// stops new items from being taken up.
func (p *Pool) Run(ctx context.Context, pending []string) Tally {
	tally := Tally{Pending: len(pending)}
	if len(pending) == 0 {
		return tally
	}

	items := make(chan string)
	results := make(chan Result, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, items, results)
	}

	go func() {
		defer close(items)
		for _, item := range pending {
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results once all workers are done so the collector loop below
	// terminates.
	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector: the only writer to the tally.
	for result := range results {
		tally.add(result)
	}
	return tally
}

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup, items <-chan string, results chan<- Result) {
	defer wg.Done()
	for {
		select {
		case source, ok := <-items:
			if !ok {
				return
			}
			results <- p.attempt(ctx, source)
		case <-ctx.Done():
			return
		}
	}
}

// attempt runs one item's full convert-and-place sequence to completion.
func (p *Pool) attempt(ctx context.Context, source string) Result {
	finalPath, err := p.mapper.OutputPathFor(source)
	if err != nil {
		return Result{Source: source, Outcome: OutcomeFailed, Err: err}
	}

	// Cheap stat to absorb the race where the output appeared after
	// reconciliation: another process or a previous partial run finished
	// this item already.
	if _, err := os.Stat(finalPath); err == nil {
		p.logger.Info("output already present, skipping",
			logging.String("source", source),
			logging.String("destination", finalPath),
		)
		return Result{Source: source, Outcome: OutcomeSkipped}
	}

	started := time.Now()
	if err := p.strategy.Convert(ctx, source, finalPath); err != nil {
		p.logger.Error("conversion failed",
			logging.String("source", source),
			logging.String("destination", finalPath),
			logging.Error(err),
			logging.String(logging.FieldEventType, "conversion_failed"),
			logging.String(logging.FieldErrorHint, "inspect converter output and source file integrity"),
			logging.String(logging.FieldImpact, "item will be retried on the next run"),
		)
		return Result{Source: source, Outcome: OutcomeFailed, Err: err}
	}

	p.logger.Info("conversion completed",
		logging.String("source", source),
		logging.String("destination", finalPath),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Result{Source: source, Outcome: OutcomeSucceeded}
}

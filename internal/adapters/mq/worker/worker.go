// Package worker runs the per-player milestone pipeline over queued batches.
//
// Each worker consumes whole player batches: it validates chronological
// order, evaluates every line for single-game milestones, folds running
// career totals, detects threshold crossings, and commits the survivors
// through the shared witnessed ledger. Players are independent, so batches
// process in parallel; the ledger is the only shared resource and its
// filter methods are atomic per batch.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/jnpushkin/nba-processor/internal/adapters/mq/queue"
	"github.com/jnpushkin/nba-processor/internal/domain/career"
	"github.com/jnpushkin/nba-processor/internal/domain/model"
	"github.com/jnpushkin/nba-processor/pkg/logger"
	"github.com/jnpushkin/nba-processor/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Batch is what workers read off the queue.
type Batch = queue.Batch

// Evaluator computes single-game milestones for one stat line.
type Evaluator interface {
	Evaluate(line model.GameStatLine) ([]model.Achievement, error)
}

// Tracker detects career threshold crossings between totals snapshots.
type Tracker interface {
	DetectCrossings(before, after model.CareerTotals, gameID string) ([]model.CareerMilestoneEvent, error)
}

// Ledger is the subset of the witnessed ledger workers commit through.
type Ledger interface {
	FilterNewAchievements(ctx context.Context, events []model.Achievement) []model.Achievement
	FilterNewCareerEvents(ctx context.Context, events []model.CareerMilestoneEvent) []model.CareerMilestoneEvent
}

// Queue defines how workers receive batches.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Batch
}

// Result is one player's outcome. Err set means the batch failed before
// commit and nothing was recorded in the ledger for this player; Warnings
// carry non-fatal conditions (suppressed non-monotonic categories).
type Result struct {
	PlayerID     string
	Games        int
	Achievements []model.Achievement
	CareerEvents []model.CareerMilestoneEvent
	FinalTotals  model.CareerTotals
	Warnings     []error
	Err          error
}

// Sink receives per-player results as workers finish them.
type Sink interface {
	PlayerProcessed(ctx context.Context, res Result)
}

// Worker processes player batches until stopped.
type Worker struct {
	queue     Queue
	evaluator Evaluator
	tracker   Tracker
	ledger    Ledger
	sink      Sink
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, ev Evaluator, tr Tracker, led Ledger, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		evaluator: ev,
		tracker:   tr,
		ledger:    led,
		sink:      sink,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	batches := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case b, ok := <-batches:
			if !ok {
				return
			}
			res := w.processBatch(ctx, b)
			if res.Err != nil {
				metrics.RecordPlayerFailure()
				w.logger.Error(ctx, "player batch failed",
					logger.String("playerID", res.PlayerID),
					logger.Error(res.Err),
				)
			}
			w.sink.PlayerProcessed(ctx, res)
		}
	}
}

// Done returns a channel closed when the worker's loop has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processBatch runs the full pipeline for one player. Candidate milestones
// are held locally and committed through the ledger only after the whole
// batch evaluates cleanly, so a mid-batch failure records nothing and the
// next run can retry the player from scratch.
func (w *Worker) processBatch(ctx context.Context, b Batch) Result {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	res := Result{PlayerID: b.PlayerID}

	var acc *career.Accumulator
	if b.Baseline != nil {
		acc = career.NewAccumulatorFrom(*b.Baseline)
	} else {
		acc = career.NewAccumulator(b.PlayerID)
	}

	var candidates []model.Achievement
	var crossings []model.CareerMilestoneEvent

	for _, line := range b.Lines {
		metrics.RecordLineEvaluated()

		achievements, err := w.evaluator.Evaluate(line)
		if err != nil {
			if errors.Is(err, model.ErrMalformedStatLine) {
				metrics.RecordMalformedLine()
			}
			res.Err = fmt.Errorf("game %s: %w", line.GameID, err)
			return res
		}
		candidates = append(candidates, achievements...)

		before, after, err := acc.Fold(line)
		if err != nil {
			res.Err = err
			return res
		}

		events, err := w.tracker.DetectCrossings(before, after, line.GameID)
		if err != nil {
			// Non-monotonic categories are suppressed, not fatal; the
			// remaining categories' events are still valid.
			if !errors.Is(err, career.ErrNonMonotonicTotals) {
				res.Err = fmt.Errorf("game %s: %w", line.GameID, err)
				return res
			}
			res.Warnings = append(res.Warnings, err)
		}
		crossings = append(crossings, events...)
	}

	res.Games = len(b.Lines)
	res.FinalTotals = acc.Totals()

	// Commit: everything from here on is externally visible.
	res.Achievements = w.ledger.FilterNewAchievements(ctx, candidates)
	res.CareerEvents = w.ledger.FilterNewCareerEvents(ctx, crossings)

	suppressed := len(candidates) - len(res.Achievements) +
		len(crossings) - len(res.CareerEvents)
	if suppressed > 0 {
		metrics.RecordDuplicatesSuppressed(suppressed)
	}
	for _, a := range res.Achievements {
		metrics.RecordAchievement(string(a.Kind))
	}
	for _, e := range res.CareerEvents {
		metrics.RecordCareerCrossing(string(e.Category))
	}

	return res
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*Worker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers wired to the same
// evaluator, tracker, ledger and sink.
func NewPool(workerCount int, q Queue, ev Evaluator, tr Tracker, led Ledger, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, ev, tr, led, sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has drained the queue and exited.
// Close the queue first or Wait will not return.
func (p *Pool) Wait() {
	for _, w := range p.workers {
		<-w.done
	}
}

// Shutdown gracefully shuts down the entire pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}

// Package service wires the milestone pipeline together: it groups stat
// lines into per-player batches, fans them out to the worker pool, and
// assembles the run report once every player settles.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	batchqueue "github.com/jnpushkin/nba-processor/internal/adapters/mq/queue"
	workerpool "github.com/jnpushkin/nba-processor/internal/adapters/mq/worker"
	"github.com/jnpushkin/nba-processor/internal/adapters/repository"
	"github.com/jnpushkin/nba-processor/internal/domain/career"
	"github.com/jnpushkin/nba-processor/internal/domain/ledger"
	"github.com/jnpushkin/nba-processor/internal/domain/milestone"
	"github.com/jnpushkin/nba-processor/internal/domain/model"
	"github.com/jnpushkin/nba-processor/pkg/logger"
	"github.com/jnpushkin/nba-processor/pkg/metrics"
)

// PlayerError reports one player whose batch failed before commit.
type PlayerError struct {
	PlayerID string `json:"player_id"`
	Error    string `json:"error"`
}

// Report is the outcome of one processing run. Achievements and career
// events are ordered deterministically (date, game, player) so two runs
// over the same input produce identical reports.
type Report struct {
	RunID            string                       `json:"run_id"`
	StartedAt        time.Time                    `json:"started_at"`
	CompletedAt      time.Time                    `json:"completed_at"`
	GamesProcessed   int                          `json:"games_processed"`
	PlayersProcessed int                          `json:"players_processed"`
	Achievements     []model.Achievement          `json:"achievements"`
	CareerEvents     []model.CareerMilestoneEvent `json:"career_events"`
	PlayerErrors     []PlayerError                `json:"player_errors,omitempty"`
	Warnings         []string                     `json:"warnings,omitempty"`
	LedgerSize       int64                        `json:"ledger_size"`
}

// Service implements the milestone processing pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	ledger     ledger.Ledger
	store      *repository.LedgerStore
	queue      batchqueue.Queue
	evaluator  *milestone.Evaluator
	tracker    *career.Tracker
	workerPool *workerpool.Pool

	// Configuration
	workerCount        int
	queueSize          int
	ledgerPath         string
	multiCategoryFloor int
	careerSteps        map[model.StatCategory]int
	baselines          map[string]model.CareerTotals

	// State
	started bool

	// Per-run result collection (Service is the pool's sink)
	resMu   sync.Mutex
	results []workerpool.Result

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of evaluation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the batch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLedgerPath sets the witnessed ledger snapshot file.
func WithLedgerPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.ledgerPath = path
		}
	}
}

// WithMultiCategoryFloor sets the double/triple double per-category floor.
func WithMultiCategoryFloor(floor int) Option {
	return func(s *Service) {
		if floor > 0 {
			s.multiCategoryFloor = floor
		}
	}
}

// WithCareerSteps overrides career milestone steps per category.
func WithCareerSteps(steps map[model.StatCategory]int) Option {
	return func(s *Service) {
		if len(steps) > 0 {
			s.careerSteps = steps
		}
	}
}

// WithBaselines seeds career totals carried in from before this run's input.
func WithBaselines(baselines map[string]model.CareerTotals) Option {
	return func(s *Service) {
		s.baselines = baselines
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:        runtime.NumCPU() * 2,
		queueSize:          4096,
		ledgerPath:         "witnessed_milestones.json",
		multiCategoryFloor: 10,
		logger:             nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and restores the witnessed
// ledger from its snapshot.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting milestone processor...")

	s.store = repository.NewLedgerStore(repository.WithPath(s.ledgerPath))
	keys, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restoring witnessed ledger: %w", err)
	}

	s.ledger = ledger.NewInMemoryLedger(ledger.WithInitialCapacity(len(keys)))
	s.ledger.Restore(keys)

	s.queue = batchqueue.NewInMemoryQueue(
		batchqueue.WithCapacity(s.queueSize),
	)
	s.evaluator = milestone.NewEvaluator(
		milestone.WithMultiCategoryFloor(s.multiCategoryFloor),
	)
	trackerOpts := []career.Option{}
	if len(s.careerSteps) > 0 {
		trackerOpts = append(trackerOpts, career.WithSteps(s.careerSteps))
	}
	s.tracker = career.NewTracker(trackerOpts...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.evaluator, s.tracker, s.ledger, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "milestone processor started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("witnessedKeys", len(keys)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping milestone processor...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "milestone processor stopped")
}

// PlayerProcessed implements the worker sink. Results arrive from multiple
// workers concurrently.
func (s *Service) PlayerProcessed(_ context.Context, res workerpool.Result) {
	s.resMu.Lock()
	defer s.resMu.Unlock()
	s.results = append(s.results, res)
}

// Process runs the full pipeline over one input of stat lines and returns
// the run report. It drains the queue completely, so a service instance
// handles exactly one Process call between Start and Stop.
func (s *Service) Process(ctx context.Context, lines []model.GameStatLine) (*Report, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, fmt.Errorf("service not started")
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	start := time.Now()

	batches := s.groupByPlayer(lines)
	s.logger.Info(ctx, "processing run started",
		logger.String("runID", report.RunID),
		logger.Int("statLines", len(lines)),
		logger.Int("players", len(batches)),
	)

	for _, b := range batches {
		if !s.queue.Enqueue(ctx, b) {
			return nil, fmt.Errorf("enqueue player %s: %w", b.PlayerID, batchqueue.ErrClosed)
		}
	}

	// No more batches this run; workers exit once the queue drains.
	if err := s.queue.Close(); err != nil {
		return nil, fmt.Errorf("closing queue: %w", err)
	}
	s.workerPool.Wait()

	s.resMu.Lock()
	results := s.results
	s.results = nil
	s.resMu.Unlock()

	s.assemble(report, results)

	// Flush the witnessed ledger so reruns stay silent on everything
	// committed above. Failed players committed nothing and will be
	// retried cleanly next run.
	if err := s.store.Flush(ctx, s.ledger.Snapshot()); err != nil {
		return report, fmt.Errorf("flushing witnessed ledger: %w", err)
	}

	report.CompletedAt = time.Now().UTC()
	report.LedgerSize = s.ledger.Size()

	metrics.RecordRunCompleted()
	metrics.RecordRunDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "processing run completed",
		logger.String("runID", report.RunID),
		logger.Int("achievements", len(report.Achievements)),
		logger.Int("careerEvents", len(report.CareerEvents)),
		logger.Int("playerErrors", len(report.PlayerErrors)),
	)

	return report, nil
}

// groupByPlayer splits the input into per-player batches ordered by date
// then game id, attaching the player's baseline totals when one exists.
func (s *Service) groupByPlayer(lines []model.GameStatLine) []batchqueue.Batch {
	byPlayer := make(map[string][]model.GameStatLine)
	order := make([]string, 0)
	for _, line := range lines {
		if _, ok := byPlayer[line.PlayerID]; !ok {
			order = append(order, line.PlayerID)
		}
		byPlayer[line.PlayerID] = append(byPlayer[line.PlayerID], line)
	}

	batches := make([]batchqueue.Batch, 0, len(order))
	for _, playerID := range order {
		playerLines := byPlayer[playerID]
		sort.SliceStable(playerLines, func(i, j int) bool {
			if !playerLines[i].Date.Equal(playerLines[j].Date) {
				return playerLines[i].Date.Before(playerLines[j].Date)
			}
			return playerLines[i].GameID < playerLines[j].GameID
		})

		b := batchqueue.Batch{PlayerID: playerID, Lines: playerLines}
		if baseline, ok := s.baselines[playerID]; ok {
			bl := baseline.Clone()
			b.Baseline = &bl
		}
		batches = append(batches, b)
	}
	return batches
}

// assemble folds worker results into the report with deterministic order.
func (s *Service) assemble(report *Report, results []workerpool.Result) {
	for _, res := range results {
		if res.Err != nil {
			report.PlayerErrors = append(report.PlayerErrors, PlayerError{
				PlayerID: res.PlayerID,
				Error:    res.Err.Error(),
			})
			continue
		}
		report.PlayersProcessed++
		report.GamesProcessed += res.Games
		report.Achievements = append(report.Achievements, res.Achievements...)
		report.CareerEvents = append(report.CareerEvents, res.CareerEvents...)
		for _, w := range res.Warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("player %s: %v", res.PlayerID, w))
		}
	}

	sort.Slice(report.Achievements, func(i, j int) bool {
		a, b := report.Achievements[i], report.Achievements[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		return a.Kind < b.Kind
	})
	sort.Slice(report.CareerEvents, func(i, j int) bool {
		a, b := report.CareerEvents[i], report.CareerEvents[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Threshold < b.Threshold
	})
	sort.Slice(report.PlayerErrors, func(i, j int) bool {
		return report.PlayerErrors[i].PlayerID < report.PlayerErrors[j].PlayerID
	})
	sort.Strings(report.Warnings)
}

// LedgerSize returns the current number of witnessed keys.
func (s *Service) LedgerSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ledger == nil {
		return 0
	}
	return s.ledger.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"ledgerPath":  s.ledgerPath,
	}
	if s.started {
		stats["witnessedKeys"] = s.ledger.Size()
		metrics.UpdateLedgerSize(int(s.ledger.Size()))
	}
	return stats
}

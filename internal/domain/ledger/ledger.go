// Package ledger defines the witnessed-milestone ledger used for
// at-most-once reporting across repeated or overlapping runs.
package ledger

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// Ledger records witnessed milestone keys so the same milestone is never
// reported twice. Keys persist indefinitely and are never mutated, only
// checked for existence or inserted.
type Ledger interface {
	// Has reports whether key has already been witnessed.
	Has(ctx context.Context, key string) bool

	// Record marks key as witnessed. Recording an already-present key is
	// a no-op, not an error.
	Record(ctx context.Context, key string)

	// FilterNewAchievements returns the achievements not already
	// witnessed and records every returned one. The check-and-record is
	// atomic over the batch: a key appearing twice in one input is
	// emitted exactly once.
	FilterNewAchievements(ctx context.Context, events []model.Achievement) []model.Achievement

	// FilterNewCareerEvents is FilterNewAchievements for career events.
	FilterNewCareerEvents(ctx context.Context, events []model.CareerMilestoneEvent) []model.CareerMilestoneEvent

	// Size returns the number of witnessed keys.
	Size() int64

	// Snapshot returns all witnessed keys in sorted order, for flushing
	// to durable storage.
	Snapshot() []string

	// Restore seeds the ledger from durable storage. Existing keys are kept.
	Restore(keys []string)
}

// inMemoryLedger implements Ledger with a mutex-guarded set. Per-player
// workers share one instance; the lock spans each whole filter batch so
// the atomic filter-new guarantee holds under parallel evaluation.
type inMemoryLedger struct {
	mu        sync.RWMutex
	witnessed map[string]struct{}
	size      atomic.Int64
}

// NewInMemoryLedger creates an in-memory ledger with configuration options.
func NewInMemoryLedger(opts ...Option) Ledger {
	l := &inMemoryLedger{}

	cfg := options{initialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	l.witnessed = make(map[string]struct{}, cfg.initialCapacity)
	return l
}

func (l *inMemoryLedger) Has(ctx context.Context, key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.witnessed[key]
	return ok
}

func (l *inMemoryLedger) Record(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(key)
}

// record inserts under an already-held write lock.
func (l *inMemoryLedger) record(key string) bool {
	if _, ok := l.witnessed[key]; ok {
		return false
	}
	l.witnessed[key] = struct{}{}
	l.size.Add(1)
	return true
}

func (l *inMemoryLedger) FilterNewAchievements(ctx context.Context, events []model.Achievement) []model.Achievement {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []model.Achievement
	for _, e := range events {
		if l.record(e.WitnessKey()) {
			out = append(out, e)
		}
	}
	return out
}

func (l *inMemoryLedger) FilterNewCareerEvents(ctx context.Context, events []model.CareerMilestoneEvent) []model.CareerMilestoneEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []model.CareerMilestoneEvent
	for _, e := range events {
		if l.record(e.WitnessKey()) {
			out = append(out, e)
		}
	}
	return out
}

func (l *inMemoryLedger) Size() int64 {
	return l.size.Load()
}

func (l *inMemoryLedger) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.witnessed))
	for k := range l.witnessed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *inMemoryLedger) Restore(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, k := range keys {
		l.record(k)
	}
}

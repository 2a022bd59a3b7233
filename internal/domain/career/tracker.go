// Package career detects round-number career threshold crossings.
//
// The tracker is pure math over before/after totals pairs: it has no ledger
// knowledge and recomputes every crossing implied by the delta on each call.
// Deduplication is layered on top by the ledger so the math stays
// independently testable.
package career

import (
	"errors"
	"fmt"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// DefaultSteps returns the per-category career threshold step sizes.
// Round numbers from the authoritative milestone tables.
func DefaultSteps() map[model.StatCategory]int {
	return map[model.StatCategory]int{
		model.CategoryPoints:   1000,
		model.CategoryRebounds: 500,
		model.CategoryAssists:  500,
		model.CategorySteals:   250,
		model.CategoryBlocks:   250,
		model.CategoryThrees:   250,
	}
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithSteps overrides step sizes for the given categories. Categories with
// a non-positive step are left at their default.
func WithSteps(steps map[model.StatCategory]int) Option {
	return func(t *Tracker) {
		for c, s := range steps {
			if c.Valid() && s > 0 {
				t.steps[c] = s
			}
		}
	}
}

// Tracker detects career threshold crossings between totals snapshots.
type Tracker struct {
	steps map[model.StatCategory]int
}

// NewTracker creates a tracker with configuration options.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		steps: DefaultSteps(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Step returns the configured step for a category (zero when untracked).
func (t *Tracker) Step(c model.StatCategory) int {
	return t.steps[c]
}

// DetectCrossings emits one event per step multiple crossed between before
// and after, ascending per category, categories in canonical order. A game
// that jumps a player from 999 to 2005 points crosses both 1000 and 2000.
//
// A category where after < before is suppressed and reported via a
// NonMonotonicError; the remaining categories are still evaluated, so the
// returned events can be non-empty alongside a non-nil error.
func (t *Tracker) DetectCrossings(before, after model.CareerTotals, gameID string) ([]model.CareerMilestoneEvent, error) {
	if before.PlayerID != after.PlayerID {
		return nil, fmt.Errorf("%w: %q vs %q", ErrMismatchedTotals, before.PlayerID, after.PlayerID)
	}

	var events []model.CareerMilestoneEvent
	var errs []error

	for _, c := range model.AllCategories() {
		step, ok := t.steps[c]
		if !ok || step <= 0 {
			continue
		}
		b, a := before.Total(c), after.Total(c)
		if a < b {
			errs = append(errs, &NonMonotonicError{
				PlayerID: after.PlayerID,
				Category: c,
				Before:   b,
				After:    a,
			})
			continue
		}
		for mult := b/step + 1; mult <= a/step; mult++ {
			events = append(events, model.CareerMilestoneEvent{
				PlayerID:   after.PlayerID,
				Category:   c,
				Threshold:  mult * step,
				GameID:     gameID,
				Date:       after.AsOf,
				TotalAfter: a,
			})
		}
	}

	return events, errors.Join(errs...)
}

package career

import (
	"fmt"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// Accumulator folds a player's chronological game sequence into running
// career totals, yielding the before/after pair the Tracker needs per game.
// It supports the replay-from-history caller mode; callers that persist
// totals externally can call Tracker.DetectCrossings directly instead.
//
// Not safe for concurrent use; each player gets its own accumulator.
type Accumulator struct {
	totals model.CareerTotals
}

// NewAccumulator starts a player's career from zero.
func NewAccumulator(playerID string) *Accumulator {
	return &Accumulator{totals: model.NewCareerTotals(playerID)}
}

// NewAccumulatorFrom resumes from an externally persisted baseline.
func NewAccumulatorFrom(baseline model.CareerTotals) *Accumulator {
	return &Accumulator{totals: baseline.Clone()}
}

// Totals returns a snapshot of the current running totals.
func (a *Accumulator) Totals() model.CareerTotals {
	return a.totals.Clone()
}

// Fold applies one game and returns the (before, after) snapshot pair.
// Games must arrive in chronological order; a line dated before the last
// folded game returns ErrOutOfOrderGame and leaves the totals untouched,
// since a corrupted delta would poison every later crossing computation.
// Same-day games are accepted: date resolution cannot order them, and the
// caller owns intra-day sequencing.
func (a *Accumulator) Fold(line model.GameStatLine) (before, after model.CareerTotals, err error) {
	if line.PlayerID != a.totals.PlayerID {
		return model.CareerTotals{}, model.CareerTotals{},
			fmt.Errorf("%w: accumulator for %q got line for %q",
				ErrMismatchedTotals, a.totals.PlayerID, line.PlayerID)
	}
	if !a.totals.AsOf.IsZero() && line.Date.Before(a.totals.AsOf) {
		return model.CareerTotals{}, model.CareerTotals{},
			&OutOfOrderError{PlayerID: line.PlayerID, GameID: line.GameID}
	}

	before = a.totals.Clone()
	a.totals = a.totals.Add(line)
	return before, a.totals.Clone(), nil
}

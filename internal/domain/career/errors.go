package career

import (
	"errors"
	"fmt"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// Sentinel kinds for career tracking errors. These allow errors.Is/As from callers.
var (
	// ErrNonMonotonicTotals marks an after-snapshot smaller than its
	// before-snapshot in some category; almost always an upstream parsing
	// or ordering defect.
	ErrNonMonotonicTotals = errors.New("non-monotonic career totals")

	// ErrOutOfOrderGame marks a stat line presented out of chronological
	// order; deltas cannot be computed safely past this point.
	ErrOutOfOrderGame = errors.New("game out of chronological order")

	// ErrMismatchedTotals marks before/after snapshots that do not belong
	// to the same player.
	ErrMismatchedTotals = errors.New("mismatched career totals")
)

// NonMonotonicError carries the category context for a monotonicity
// violation so the caller can investigate the upstream defect.
type NonMonotonicError struct {
	PlayerID string
	Category model.StatCategory
	Before   int
	After    int
}

func (e *NonMonotonicError) Error() string {
	return fmt.Sprintf("non-monotonic career totals: player %s %s went %d -> %d",
		e.PlayerID, e.Category, e.Before, e.After)
}

// Is lets errors.Is(err, ErrNonMonotonicTotals) match.
func (e *NonMonotonicError) Is(target error) bool {
	return target == ErrNonMonotonicTotals
}

// OutOfOrderError identifies the offending game for an ordering violation.
type OutOfOrderError struct {
	PlayerID string
	GameID   string
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("game out of chronological order: player %s game %s", e.PlayerID, e.GameID)
}

// Is lets errors.Is(err, ErrOutOfOrderGame) match.
func (e *OutOfOrderError) Is(target error) bool {
	return target == ErrOutOfOrderGame
}

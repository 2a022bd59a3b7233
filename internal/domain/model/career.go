package model

import "time"

// CareerTotals is a snapshot of a player's cumulative counts per category
// as of a specific game. AsOf is the ordering key: totals must be
// monotonically non-decreasing in every category as AsOf advances.
type CareerTotals struct {
	PlayerID string               `json:"player_id"`
	AsOf     time.Time            `json:"as_of"`
	Games    int                  `json:"games"`
	Totals   map[StatCategory]int `json:"totals"`
}

// NewCareerTotals returns an empty baseline for a player.
func NewCareerTotals(playerID string) CareerTotals {
	return CareerTotals{
		PlayerID: playerID,
		Totals:   make(map[StatCategory]int, len(AllCategories())),
	}
}

// Total returns the cumulative count for a category (zero when untracked).
func (t CareerTotals) Total(c StatCategory) int {
	return t.Totals[c]
}

// Add folds one game into the totals and returns the new snapshot.
// The receiver is not mutated; snapshots stay usable as before/after pairs.
func (t CareerTotals) Add(line GameStatLine) CareerTotals {
	next := CareerTotals{
		PlayerID: t.PlayerID,
		AsOf:     line.Date,
		Games:    t.Games + 1,
		Totals:   make(map[StatCategory]int, len(AllCategories())),
	}
	if next.PlayerID == "" {
		next.PlayerID = line.PlayerID
	}
	for _, c := range AllCategories() {
		next.Totals[c] = t.Totals[c] + line.Stat(c)
	}
	return next
}

// Clone returns a deep copy, so callers can hold a snapshot across Adds.
func (t CareerTotals) Clone() CareerTotals {
	cp := t
	cp.Totals = make(map[StatCategory]int, len(t.Totals))
	for c, v := range t.Totals {
		cp.Totals[c] = v
	}
	return cp
}

package model

// PlayerBatch is the unit of work handed to evaluation workers: one
// player's stat lines in chronological order, plus an optional externally
// persisted career baseline. Without a baseline the career starts from
// zero (full-history replay mode).
type PlayerBatch struct {
	PlayerID string
	Lines    []GameStatLine
	Baseline *CareerTotals
}

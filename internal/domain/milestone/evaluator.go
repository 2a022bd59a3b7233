// Package milestone implements the tiered single-game milestone evaluator.
//
// The evaluator is a pure function of one stat line: no ledger, no career
// state. Tier ladders live in tiers.go as data; each category reports only
// its highest qualifying tier.
package milestone

import (
	"fmt"
	"strings"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// Default evaluation constants. Thresholds for the non-tiered kinds are
// externally supplied domain constants consumed as-is.
const (
	defaultFloor     = 10 // per-category floor for double/triple/quadruple-doubles
	nearMissFloor    = 8  // 8-9 counts as a near miss for near-* kinds
	fiveByFiveFloor  = 5
	allAroundAtEight = 4 // 8+ in this many categories is an all-around game

	hotShootingPct      = 0.60
	hotShootingMinFGA   = 10
	perfectFTMinFTA     = 5
	perfectFGMinFGA     = 5
	perfectThreeMin3PA  = 4
	efficientTSPct      = 0.65
	efficientMinPoints  = 15
	highGameScoreFloor  = 35.0
	defensiveMonsterSum = 7
	zeroTurnoverMinutes = 20.0
	minusGameFloor      = -25
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithMultiCategoryFloor overrides the per-category floor used for
// double/triple/quadruple-double counting.
func WithMultiCategoryFloor(floor int) Option {
	return func(e *Evaluator) {
		if floor > 0 {
			e.floor = floor
		}
	}
}

// Evaluator detects single-game milestones in one stat line.
type Evaluator struct {
	floor int
}

// NewEvaluator creates an evaluator with configuration options.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		floor: defaultFloor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns every milestone the line qualifies for, highest tier
// only per category. An unremarkable line yields nil, not an error; a
// malformed line yields model.ErrMalformedStatLine and no partial results.
// Identical input always produces identical output.
func (e *Evaluator) Evaluate(line model.GameStatLine) ([]model.Achievement, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}

	var out []model.Achievement

	out = append(out, e.multiCategory(line)...)
	out = append(out, e.tiered(line)...)
	out = append(out, e.combined(line)...)
	out = append(out, e.efficiency(line)...)
	out = append(out, e.defensiveAndClean(line)...)
	out = append(out, e.plusMinus(line)...)

	return out, nil
}

// ach fills the identity fields every achievement carries.
func ach(line model.GameStatLine, kind model.AchievementKind) model.Achievement {
	return model.Achievement{
		Kind:       kind,
		PlayerID:   line.PlayerID,
		PlayerName: line.PlayerName,
		Team:       line.Team,
		Opponent:   line.Opponent,
		GameID:     line.GameID,
		Date:       line.Date,
	}
}

// multiCategory handles the double-double family plus its neighbors.
// Only the highest rank is reported: a triple-double never also emits the
// double-double it contains.
func (e *Evaluator) multiCategory(line model.GameStatLine) []model.Achievement {
	var atFloor, nearMiss int
	var qualifying []string
	for _, c := range model.CoreCategories() {
		v := line.Stat(c)
		switch {
		case v >= e.floor:
			atFloor++
			qualifying = append(qualifying, shortName(c))
		case v >= nearMissFloor:
			nearMiss++
		}
	}

	var out []model.Achievement

	if kind, label, ok := rankKind(atFloor); ok {
		a := ach(line, kind)
		a.Rank = atFloor
		a.Detail = fmt.Sprintf("%s (%s)", label, strings.Join(qualifying, "/"))
		out = append(out, a)
	}

	// Near misses: one category short of the next rank, with at least one
	// stat in the 8-9 band. A full triple-double suppresses the near
	// triple-double; a full double-double suppresses the near double-double.
	if atFloor == 2 && nearMiss >= 1 {
		a := ach(line, model.KindNearTripleDouble)
		a.Rank = atFloor
		a.Detail = fmt.Sprintf("Near triple-double (%d/%d/%d)", line.Points, line.Rebounds, line.Assists)
		out = append(out, a)
	} else if atFloor == 1 && nearMiss >= 1 {
		a := ach(line, model.KindNearDoubleDouble)
		a.Rank = atFloor
		a.Detail = "Near double-double"
		out = append(out, a)
	}

	allFive := true
	atEight := 0
	for _, c := range model.CoreCategories() {
		v := line.Stat(c)
		if v < fiveByFiveFloor {
			allFive = false
		}
		if v >= nearMissFloor {
			atEight++
		}
	}
	statLine := fmt.Sprintf("%d/%d/%d/%d/%d",
		line.Points, line.Rebounds, line.Assists, line.Steals, line.Blocks)
	if allFive {
		a := ach(line, model.KindFiveByFive)
		a.Detail = "5x5 (" + statLine + ")"
		out = append(out, a)
	}
	if allFive || atEight >= allAroundAtEight {
		a := ach(line, model.KindAllAroundGame)
		a.Detail = "All-around (" + statLine + ")"
		out = append(out, a)
	}

	return out
}

// tiered walks each category ladder top-down and reports the first match.
func (e *Evaluator) tiered(line model.GameStatLine) []model.Achievement {
	var out []model.Achievement
	for _, ct := range categoryTables {
		value := line.Stat(ct.category)
		tr, ok := ct.table.firstMatch(value)
		if !ok {
			continue
		}
		a := ach(line, tr.kind)
		a.Category = ct.category
		a.Threshold = tr.threshold
		a.Value = value
		a.Detail = tierDetail(value, tr.noun)
		out = append(out, a)
	}
	return out
}

// combined covers point totals paired with rebounds/assists.
func (e *Evaluator) combined(line model.GameStatLine) []model.Achievement {
	var out []model.Achievement

	if line.Rebounds >= e.floor || line.Assists >= e.floor {
		if tr, ok := combinedTiers.firstMatch(line.Points); ok {
			a := ach(line, tr.kind)
			a.Threshold = tr.threshold
			a.Value = line.Points
			a.Detail = fmt.Sprintf("%d pts, %d reb, %d ast", line.Points, line.Rebounds, line.Assists)
			out = append(out, a)
		}
	}

	if line.Points >= 20 && line.Rebounds >= 10 && line.Assists >= 5 {
		a := ach(line, model.KindTwentyTenFive)
		a.Detail = fmt.Sprintf("%d pts, %d reb, %d ast", line.Points, line.Rebounds, line.Assists)
		out = append(out, a)
	}

	if line.Points >= 20 && line.Rebounds >= 20 {
		a := ach(line, model.KindTwentyTwenty)
		a.Detail = fmt.Sprintf("%d points, %d rebounds", line.Points, line.Rebounds)
		out = append(out, a)
	}

	if line.Points >= e.floor && line.Assists >= e.floor && line.Rebounds < e.floor {
		a := ach(line, model.KindPointsAssistsDD)
		a.Detail = fmt.Sprintf("%d pts, %d ast", line.Points, line.Assists)
		out = append(out, a)
	}

	return out
}

// efficiency covers shooting-percentage and game-score kinds.
func (e *Evaluator) efficiency(line model.GameStatLine) []model.Achievement {
	var out []model.Achievement

	if line.ThreeAttempts >= perfectThreeMin3PA && line.ThreesMade == line.ThreeAttempts {
		a := ach(line, model.KindPerfectFromThree)
		a.Detail = fmt.Sprintf("%d/%d from three (100%%)", line.ThreesMade, line.ThreeAttempts)
		out = append(out, a)
	}

	if line.FGAttempts >= hotShootingMinFGA {
		pct := float64(line.FGMade) / float64(line.FGAttempts)
		if pct >= hotShootingPct {
			a := ach(line, model.KindHotShooting)
			a.Detail = fmt.Sprintf("%d/%d FG (%.1f%%)", line.FGMade, line.FGAttempts, pct*100)
			out = append(out, a)
		}
	}

	if line.FTAttempts >= perfectFTMinFTA && line.FTMade == line.FTAttempts {
		a := ach(line, model.KindPerfectFT)
		a.Detail = fmt.Sprintf("%d/%d FT (100%%)", line.FTMade, line.FTAttempts)
		out = append(out, a)
	}

	if line.FGAttempts >= perfectFGMinFGA && line.FGMade == line.FGAttempts {
		a := ach(line, model.KindPerfectFG)
		a.Detail = fmt.Sprintf("%d/%d FG (100%%)", line.FGMade, line.FGAttempts)
		out = append(out, a)
	}

	if line.Points >= efficientMinPoints {
		if ts, ok := line.TrueShooting(); ok && ts >= efficientTSPct {
			a := ach(line, model.KindEfficientScoring)
			a.Value = line.Points
			a.Detail = fmt.Sprintf("%d points on %.1f%% TS", line.Points, ts*100)
			out = append(out, a)
		}
	}

	if gs := line.GameScore(); gs >= highGameScoreFloor {
		a := ach(line, model.KindHighGameScore)
		a.Detail = fmt.Sprintf("Game Score: %.1f", gs)
		out = append(out, a)
	}

	return out
}

func (e *Evaluator) defensiveAndClean(line model.GameStatLine) []model.Achievement {
	var out []model.Achievement

	if line.Steals+line.Blocks >= defensiveMonsterSum {
		a := ach(line, model.KindDefensiveMonster)
		a.Detail = fmt.Sprintf("%d steals, %d blocks", line.Steals, line.Blocks)
		out = append(out, a)
	}

	if line.Turnovers == 0 && line.Minutes >= zeroTurnoverMinutes {
		a := ach(line, model.KindZeroTurnover)
		a.Detail = fmt.Sprintf("0 turnovers in %.0f minutes", line.Minutes)
		out = append(out, a)
	}

	return out
}

func (e *Evaluator) plusMinus(line model.GameStatLine) []model.Achievement {
	var out []model.Achievement

	if tr, ok := plusMinusTiers.firstMatch(line.PlusMinus); ok {
		a := ach(line, tr.kind)
		a.Threshold = tr.threshold
		a.Value = line.PlusMinus
		a.Detail = fmt.Sprintf("+%d", line.PlusMinus)
		out = append(out, a)
	}

	if line.PlusMinus <= minusGameFloor {
		a := ach(line, model.KindMinusTwentyFive)
		a.Value = line.PlusMinus
		a.Detail = fmt.Sprintf("%d", line.PlusMinus)
		out = append(out, a)
	}

	return out
}

// shortName maps categories to box-score abbreviations for detail strings.
func shortName(c model.StatCategory) string {
	switch c {
	case model.CategoryPoints:
		return "pts"
	case model.CategoryRebounds:
		return "reb"
	case model.CategoryAssists:
		return "ast"
	case model.CategorySteals:
		return "stl"
	case model.CategoryBlocks:
		return "blk"
	case model.CategoryThrees:
		return "3pm"
	}
	return string(c)
}

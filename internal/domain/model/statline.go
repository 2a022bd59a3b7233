// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GameStatLine is one player's counted stats for one game, as delivered by
// the upstream box-score parser. It is immutable once validated.
// JSON tags follow box-score column conventions (pts, trb, ast, ...).
type GameStatLine struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	GameID     string    `json:"game_id"`
	Date       time.Time `json:"date"`
	Side       string    `json:"side,omitempty"` // "home" or "away"

	Points    int `json:"pts"`
	Rebounds  int `json:"trb"`
	Assists   int `json:"ast"`
	Steals    int `json:"stl"`
	Blocks    int `json:"blk"`
	Turnovers int `json:"tov"`
	Fouls     int `json:"pf"`

	FGMade        int `json:"fg"`
	FGAttempts    int `json:"fga"`
	ThreesMade    int `json:"fg3"`
	ThreeAttempts int `json:"fg3a"`
	FTMade        int `json:"ft"`
	FTAttempts    int `json:"fta"`

	// PlusMinus is the only stat allowed to be negative.
	PlusMinus int     `json:"plus_minus"`
	Minutes   float64 `json:"mp"`
}

// NewGameStatLine validates and returns the line, so callers can treat a
// returned line as well-formed everywhere downstream.
func NewGameStatLine(line GameStatLine) (GameStatLine, error) {
	if err := line.Validate(); err != nil {
		return GameStatLine{}, err
	}
	return line, nil
}

// Validate rejects lines that would corrupt milestone detection: missing
// identity, negative counting stats, or makes exceeding attempts. Missing
// stats are indistinguishable from zero in a struct, so the parser contract
// requires all fields present; identity and sign checks are enforced here.
func (l GameStatLine) Validate() error {
	if l.PlayerID == "" {
		return malformed("player_id", "missing")
	}
	if l.GameID == "" {
		return malformed("game_id", "missing")
	}
	if l.Date.IsZero() {
		return malformed("date", "missing")
	}

	counts := []struct {
		name string
		v    int
	}{
		{"pts", l.Points}, {"trb", l.Rebounds}, {"ast", l.Assists},
		{"stl", l.Steals}, {"blk", l.Blocks}, {"tov", l.Turnovers},
		{"pf", l.Fouls},
		{"fg", l.FGMade}, {"fga", l.FGAttempts},
		{"fg3", l.ThreesMade}, {"fg3a", l.ThreeAttempts},
		{"ft", l.FTMade}, {"fta", l.FTAttempts},
	}
	for _, c := range counts {
		if c.v < 0 {
			return malformed(c.name, fmt.Sprintf("negative value %d", c.v))
		}
	}
	if l.Minutes < 0 {
		return malformed("mp", fmt.Sprintf("negative value %g", l.Minutes))
	}
	if l.FGMade > l.FGAttempts {
		return malformed("fg", "makes exceed attempts")
	}
	if l.ThreesMade > l.ThreeAttempts {
		return malformed("fg3", "makes exceed attempts")
	}
	if l.FTMade > l.FTAttempts {
		return malformed("ft", "makes exceed attempts")
	}
	return nil
}

// Stat returns the line's value for a tracked category.
func (l GameStatLine) Stat(c StatCategory) int {
	switch c {
	case CategoryPoints:
		return l.Points
	case CategoryRebounds:
		return l.Rebounds
	case CategoryAssists:
		return l.Assists
	case CategorySteals:
		return l.Steals
	case CategoryBlocks:
		return l.Blocks
	case CategoryThrees:
		return l.ThreesMade
	}
	return 0
}

// GameScore computes Hollinger's game score. The weights are externally
// supplied constants; without offensive/defensive rebound splits the full
// rebound count takes the defensive weight.
func (l GameStatLine) GameScore() float64 {
	return float64(l.Points) +
		0.4*float64(l.FGMade) -
		0.7*float64(l.FGAttempts) -
		0.4*float64(l.FTAttempts-l.FTMade) +
		0.3*float64(l.Rebounds) +
		float64(l.Steals) +
		0.7*float64(l.Assists) +
		0.7*float64(l.Blocks) -
		0.4*float64(l.Fouls) -
		float64(l.Turnovers)
}

// TrueShooting returns TS% = PTS / (2 * (FGA + 0.44*FTA)), and false when
// the denominator is zero.
func (l GameStatLine) TrueShooting() (float64, bool) {
	den := 2 * (float64(l.FGAttempts) + 0.44*float64(l.FTAttempts))
	if den == 0 {
		return 0, false
	}
	return float64(l.Points) / den, true
}

// EffectiveFGPct returns eFG% = (FG + 0.5*3PM) / FGA, and false when the
// player attempted no field goals.
func (l GameStatLine) EffectiveFGPct() (float64, bool) {
	if l.FGAttempts == 0 {
		return 0, false
	}
	return (float64(l.FGMade) + 0.5*float64(l.ThreesMade)) / float64(l.FGAttempts), true
}

// ParseMinutes converts a box-score minutes cell ("34:12", "34.5", "34")
// to decimal minutes.
func ParseMinutes(mp string) (float64, error) {
	mp = strings.TrimSpace(mp)
	if mp == "" {
		return 0, nil
	}
	if i := strings.IndexByte(mp, ':'); i >= 0 {
		mins, err := strconv.Atoi(mp[:i])
		if err != nil {
			return 0, malformed("mp", "unparseable minutes "+strconv.Quote(mp))
		}
		secs, err := strconv.Atoi(mp[i+1:])
		if err != nil || secs < 0 || secs > 59 {
			return 0, malformed("mp", "unparseable minutes "+strconv.Quote(mp))
		}
		return float64(mins) + float64(secs)/60, nil
	}
	v, err := strconv.ParseFloat(mp, 64)
	if err != nil {
		return 0, malformed("mp", "unparseable minutes "+strconv.Quote(mp))
	}
	return v, nil
}

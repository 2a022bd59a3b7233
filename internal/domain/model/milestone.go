package model

import (
	"fmt"
	"time"
)

// AchievementKind names a single-game milestone type. Values double as the
// stable identifiers used in witness keys and rendered output, so they must
// never be renamed once persisted.
type AchievementKind string

// Multi-category achievement kinds.
const (
	KindQuadrupleDouble  AchievementKind = "quadruple_double"
	KindTripleDouble     AchievementKind = "triple_double"
	KindDoubleDouble     AchievementKind = "double_double"
	KindNearTripleDouble AchievementKind = "near_triple_double"
	KindNearDoubleDouble AchievementKind = "near_double_double"
	KindFiveByFive       AchievementKind = "five_by_five"
	KindAllAroundGame    AchievementKind = "all_around_game"
)

// Efficiency and shooting kinds.
const (
	KindPerfectFromThree AchievementKind = "perfect_from_three"
	KindHotShooting      AchievementKind = "hot_shooting_game"
	KindPerfectFT        AchievementKind = "perfect_ft_game"
	KindPerfectFG        AchievementKind = "perfect_fg_game"
	KindEfficientScoring AchievementKind = "efficient_scoring_game"
	KindHighGameScore    AchievementKind = "high_game_score"
)

// Combined, defensive, clean-game and plus/minus kinds.
const (
	KindTwentyTenFive    AchievementKind = "twenty_ten_five_game"
	KindTwentyTwenty     AchievementKind = "twenty_twenty_game"
	KindPointsAssistsDD  AchievementKind = "points_assists_double_double"
	KindDefensiveMonster AchievementKind = "defensive_monster_game"
	KindZeroTurnover     AchievementKind = "zero_turnover_game"
	KindMinusTwentyFive  AchievementKind = "minus_25_game"
)

// Achievement is a single-game milestone with everything a renderer needs;
// nothing has to be re-derived from raw box scores.
type Achievement struct {
	Kind       AchievementKind `json:"kind"`
	PlayerID   string          `json:"player_id"`
	PlayerName string          `json:"player"`
	Team       string          `json:"team"`
	Opponent   string          `json:"opponent"`
	GameID     string          `json:"game_id"`
	Date       time.Time       `json:"date"`

	// Category and Threshold are set for tiered per-stat kinds; Rank is
	// set for multi-category kinds; Value carries the stat value that
	// earned the milestone where one applies.
	Category  StatCategory `json:"category,omitempty"`
	Threshold int          `json:"threshold,omitempty"`
	Rank      int          `json:"rank,omitempty"`
	Value     int          `json:"value,omitempty"`
	Detail    string       `json:"detail"`
}

// WitnessKey is the ledger deduplication key for single-game milestones:
// a player earns a given kind at most once per game.
func (a Achievement) WitnessKey() string {
	return fmt.Sprintf("game|%s|%s|%s", a.PlayerID, a.GameID, a.Kind)
}

// CareerMilestoneEvent records a player crossing a fixed career threshold
// in a category during a specific game. Immutable once created.
type CareerMilestoneEvent struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player,omitempty"`
	Category   StatCategory `json:"category"`
	Threshold  int          `json:"threshold"`
	GameID     string       `json:"game_id"`
	Date       time.Time    `json:"date"`
	TotalAfter int          `json:"total_after"`
}

// WitnessKey is the ledger deduplication key for career milestones: a
// threshold is crossed once in a career, whichever game it lands in.
func (e CareerMilestoneEvent) WitnessKey() string {
	return fmt.Sprintf("career|%s|%s|%d", e.PlayerID, e.Category, e.Threshold)
}

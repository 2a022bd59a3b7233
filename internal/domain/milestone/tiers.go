package milestone

import (
	"fmt"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// tier is one rung of a category's ladder: the threshold a stat value must
// meet or exceed, the kind emitted for it, and a noun for the detail string.
type tier struct {
	threshold int
	kind      model.AchievementKind
	noun      string
}

// tierTable is an ordered ladder, highest threshold first. Evaluation scans
// top-down and stops at the first qualifying tier; lower tiers are never
// emitted for the same line.
type tierTable []tier

// firstMatch returns the highest tier met by value, or false.
func (t tierTable) firstMatch(value int) (tier, bool) {
	for _, tr := range t {
		if value >= tr.threshold {
			return tr, true
		}
	}
	return tier{}, false
}

// Tier ladders per category. Thresholds come from the authoritative
// milestone tables, not invented here.
var (
	pointTiers = tierTable{
		{70, "seventy_point_game", "points"},
		{60, "sixty_point_game", "points"},
		{50, "fifty_point_game", "points"},
		{45, "forty_five_point_game", "points"},
		{40, "forty_point_game", "points"},
		{35, "thirty_five_point_game", "points"},
		{30, "thirty_point_game", "points"},
		{25, "twenty_five_point_game", "points"},
		{20, "twenty_point_game", "points"},
	}

	reboundTiers = tierTable{
		{25, "twenty_five_rebound_game", "rebounds"},
		{20, "twenty_rebound_game", "rebounds"},
		{18, "eighteen_rebound_game", "rebounds"},
		{15, "fifteen_rebound_game", "rebounds"},
		{12, "twelve_rebound_game", "rebounds"},
		{10, "ten_rebound_game", "rebounds"},
	}

	assistTiers = tierTable{
		{20, "twenty_assist_game", "assists"},
		{15, "fifteen_assist_game", "assists"},
		{12, "twelve_assist_game", "assists"},
		{10, "ten_assist_game", "assists"},
	}

	stealTiers = tierTable{
		{10, "ten_steal_game", "steals"},
		{7, "seven_steal_game", "steals"},
		{5, "five_steal_game", "steals"},
		{4, "four_steal_game", "steals"},
	}

	blockTiers = tierTable{
		{10, "ten_block_game", "blocks"},
		{7, "seven_block_game", "blocks"},
		{5, "five_block_game", "blocks"},
		{4, "four_block_game", "blocks"},
	}

	threeTiers = tierTable{
		{10, "ten_three_game", "three-pointers"},
		{8, "eight_three_game", "three-pointers"},
		{7, "seven_three_game", "three-pointers"},
		{6, "six_three_game", "three-pointers"},
		{5, "five_three_game", "three-pointers"},
	}

	// Points paired with a 10+ rebound or assist game; the ladder keys on
	// the point total, the companion condition is shared.
	combinedTiers = tierTable{
		{30, "thirty_ten_game", "points"},
		{25, "twenty_five_ten_game", "points"},
		{20, "twenty_ten_game", "points"},
	}

	plusMinusTiers = tierTable{
		{25, "plus_25_game", "plus/minus"},
		{20, "plus_20_game", "plus/minus"},
	}
)

// categoryTables maps tracked categories to their ladders in evaluation order.
var categoryTables = []struct {
	category model.StatCategory
	table    tierTable
}{
	{model.CategoryPoints, pointTiers},
	{model.CategoryRebounds, reboundTiers},
	{model.CategoryAssists, assistTiers},
	{model.CategorySteals, stealTiers},
	{model.CategoryBlocks, blockTiers},
	{model.CategoryThrees, threeTiers},
}

// rankKind maps a multi-category rank to its achievement kind. Rank 5 has
// no separate name; it still reports as a quadruple-double plus a 5x5.
func rankKind(rank int) (model.AchievementKind, string, bool) {
	switch {
	case rank >= 4:
		return model.KindQuadrupleDouble, "Quadruple-double", true
	case rank == 3:
		return model.KindTripleDouble, "Triple-double", true
	case rank == 2:
		return model.KindDoubleDouble, "Double-double", true
	}
	return "", "", false
}

func tierDetail(value int, noun string) string {
	return fmt.Sprintf("%d %s", value, noun)
}

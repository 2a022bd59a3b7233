package model

// StatCategory identifies a tracked counting-stat category.
type StatCategory string

// Tracked categories. Threes are tracked for tiered single-game highs and
// career thresholds but are not part of the multi-category core five.
const (
	CategoryPoints   StatCategory = "points"
	CategoryRebounds StatCategory = "rebounds"
	CategoryAssists  StatCategory = "assists"
	CategorySteals   StatCategory = "steals"
	CategoryBlocks   StatCategory = "blocks"
	CategoryThrees   StatCategory = "threes"
)

// CoreCategories returns the five categories that count toward
// double/triple/quadruple-doubles, in canonical order.
func CoreCategories() []StatCategory {
	return []StatCategory{
		CategoryPoints,
		CategoryRebounds,
		CategoryAssists,
		CategorySteals,
		CategoryBlocks,
	}
}

// AllCategories returns every category tracked for career thresholds,
// in canonical order.
func AllCategories() []StatCategory {
	return []StatCategory{
		CategoryPoints,
		CategoryRebounds,
		CategoryAssists,
		CategorySteals,
		CategoryBlocks,
		CategoryThrees,
	}
}

// Valid reports whether c is a known category.
func (c StatCategory) Valid() bool {
	switch c {
	case CategoryPoints, CategoryRebounds, CategoryAssists,
		CategorySteals, CategoryBlocks, CategoryThrees:
		return true
	}
	return false
}

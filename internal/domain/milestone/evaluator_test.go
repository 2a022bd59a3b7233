package milestone_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jnpushkin/nba-processor/internal/domain/milestone"
	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

// quietLine is a valid line with nothing remarkable in it.
func quietLine() model.GameStatLine {
	return model.GameStatLine{
		PlayerID:   "doe01",
		PlayerName: "John Doe",
		Team:       "BOS",
		Opponent:   "NYK",
		GameID:     "202601100BOS",
		Date:       time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),

		Points:   8,
		Rebounds: 3,
		Assists:  2,

		FGMade:        3,
		FGAttempts:    9,
		ThreesMade:    1,
		ThreeAttempts: 4,
		FTMade:        1,
		FTAttempts:    2,

		Turnovers: 2,
		Minutes:   24,
	}
}

func kinds(achievements []model.Achievement) []model.AchievementKind {
	out := make([]model.AchievementKind, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, a.Kind)
	}
	return out
}

func find(achievements []model.Achievement, kind model.AchievementKind) (model.Achievement, bool) {
	for _, a := range achievements {
		if a.Kind == kind {
			return a, true
		}
	}
	return model.Achievement{}, false
}

func TestEvaluateTierExclusivity(t *testing.T) {
	Convey("Given the tiered category ladders", t, func() {
		ev := milestone.NewEvaluator()

		Convey("When a player scores 52 points", func() {
			line := quietLine()
			line.Points = 52
			line.FGMade = 18
			line.FGAttempts = 30
			line.FTMade = 10
			line.FTAttempts = 12

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then only the fifty-point tier should be emitted", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.AchievementKind("fifty_point_game"))
				So(got, ShouldNotContain, model.AchievementKind("forty_point_game"))
				So(got, ShouldNotContain, model.AchievementKind("thirty_point_game"))
				So(got, ShouldNotContain, model.AchievementKind("twenty_point_game"))
			})

			Convey("And the tier achievement should carry category and value", func() {
				a, ok := find(achievements, "fifty_point_game")
				So(ok, ShouldBeTrue)
				So(a.Category, ShouldEqual, model.CategoryPoints)
				So(a.Threshold, ShouldEqual, 50)
				So(a.Value, ShouldEqual, 52)
			})
		})

		Convey("When a value sits exactly on a threshold", func() {
			line := quietLine()
			line.Points = 40
			line.FGMade = 14
			line.FGAttempts = 28
			line.FTMade = 8
			line.FTAttempts = 10

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then the threshold should count as met", func() {
				So(kinds(achievements), ShouldContain, model.AchievementKind("forty_point_game"))
			})
		})

		Convey("When a value is just below the lowest tier", func() {
			line := quietLine()
			line.Points = 19
			line.FGMade = 7
			line.FGAttempts = 18
			line.FTMade = 2
			line.FTAttempts = 4

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then no point tier should be emitted", func() {
				for _, k := range kinds(achievements) {
					So(k, ShouldNotEqual, model.AchievementKind("twenty_point_game"))
				}
			})
		})

		Convey("When steals and blocks both ladder", func() {
			line := quietLine()
			line.Steals = 7
			line.Blocks = 4

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then each category should report its own highest tier", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.AchievementKind("seven_steal_game"))
				So(got, ShouldNotContain, model.AchievementKind("five_steal_game"))
				So(got, ShouldContain, model.AchievementKind("four_block_game"))
			})
		})
	})
}

func TestEvaluateMultiCategory(t *testing.T) {
	Convey("Given the multi-category family", t, func() {
		ev := milestone.NewEvaluator()

		Convey("When exactly two categories reach the floor", func() {
			line := quietLine()
			line.Points = 25
			line.Rebounds = 11
			line.Assists = 9
			line.Steals = 2
			line.Blocks = 1
			line.FGMade = 9
			line.FGAttempts = 19
			line.FTMade = 5
			line.FTAttempts = 6

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a double-double with rank 2 should be emitted, not a triple-double", func() {
				a, ok := find(achievements, model.KindDoubleDouble)
				So(ok, ShouldBeTrue)
				So(a.Rank, ShouldEqual, 2)
				So(kinds(achievements), ShouldNotContain, model.KindTripleDouble)
			})

			Convey("And the 9-assist near miss should surface as a near triple-double", func() {
				So(kinds(achievements), ShouldContain, model.KindNearTripleDouble)
			})
		})

		Convey("When three categories reach the floor", func() {
			line := quietLine()
			line.Points = 28
			line.Rebounds = 12
			line.Assists = 10
			line.FGMade = 11
			line.FGAttempts = 24
			line.FTMade = 4
			line.FTAttempts = 5

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then only the triple-double should be reported for the family", func() {
				a, ok := find(achievements, model.KindTripleDouble)
				So(ok, ShouldBeTrue)
				So(a.Rank, ShouldEqual, 3)
				got := kinds(achievements)
				So(got, ShouldNotContain, model.KindDoubleDouble)
				So(got, ShouldNotContain, model.KindNearTripleDouble)
			})
		})

		Convey("When four categories reach the floor", func() {
			line := quietLine()
			line.Points = 20
			line.Rebounds = 11
			line.Assists = 10
			line.Steals = 10
			line.FGMade = 8
			line.FGAttempts = 16
			line.FTMade = 2
			line.FTAttempts = 2

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a quadruple-double with rank 4 should be reported", func() {
				a, ok := find(achievements, model.KindQuadrupleDouble)
				So(ok, ShouldBeTrue)
				So(a.Rank, ShouldEqual, 4)
				So(kinds(achievements), ShouldNotContain, model.KindTripleDouble)
			})
		})

		Convey("When one category reaches the floor and another sits at 8-9", func() {
			line := quietLine()
			line.Points = 14
			line.Rebounds = 9
			line.Assists = 3
			line.FGMade = 6
			line.FGAttempts = 13
			line.FTMade = 1
			line.FTAttempts = 2

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a near double-double should be reported", func() {
				So(kinds(achievements), ShouldContain, model.KindNearDoubleDouble)
				So(kinds(achievements), ShouldNotContain, model.KindDoubleDouble)
			})
		})

		Convey("When all five categories reach five", func() {
			line := quietLine()
			line.Points = 12
			line.Rebounds = 6
			line.Assists = 7
			line.Steals = 5
			line.Blocks = 5
			line.FGMade = 5
			line.FGAttempts = 12
			line.FTMade = 1
			line.FTAttempts = 2

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a five-by-five and an all-around game should be reported", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.KindFiveByFive)
				So(got, ShouldContain, model.KindAllAroundGame)
			})
		})

		Convey("When the floor is raised to 12", func() {
			raised := milestone.NewEvaluator(milestone.WithMultiCategoryFloor(12))
			line := quietLine()
			line.Points = 25
			line.Rebounds = 11
			line.Assists = 10
			line.FGMade = 9
			line.FGAttempts = 19
			line.FTMade = 5
			line.FTAttempts = 6

			achievements, err := raised.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then 10-11 counts no longer qualify", func() {
				got := kinds(achievements)
				So(got, ShouldNotContain, model.KindTripleDouble)
				So(got, ShouldNotContain, model.KindDoubleDouble)
			})
		})
	})
}

func TestEvaluateCombined(t *testing.T) {
	Convey("Given combined point milestones", t, func() {
		ev := milestone.NewEvaluator()

		Convey("When a player posts 31 points and 12 rebounds", func() {
			line := quietLine()
			line.Points = 31
			line.Rebounds = 12
			line.FGMade = 12
			line.FGAttempts = 23
			line.FTMade = 5
			line.FTAttempts = 6

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then only the thirty-ten rung should fire", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.AchievementKind("thirty_ten_game"))
				So(got, ShouldNotContain, model.AchievementKind("twenty_ten_game"))
				So(got, ShouldNotContain, model.AchievementKind("twenty_five_ten_game"))
			})
		})

		Convey("When a player posts 22-11-6", func() {
			line := quietLine()
			line.Points = 22
			line.Rebounds = 11
			line.Assists = 6
			line.FGMade = 9
			line.FGAttempts = 18
			line.FTMade = 2
			line.FTAttempts = 3

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then the 20-10-5 milestone should fire alongside 20-10", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.KindTwentyTenFive)
				So(got, ShouldContain, model.AchievementKind("twenty_ten_game"))
			})
		})

		Convey("When a player posts 24 points and 21 rebounds", func() {
			line := quietLine()
			line.Points = 24
			line.Rebounds = 21
			line.FGMade = 10
			line.FGAttempts = 20
			line.FTMade = 4
			line.FTAttempts = 6

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a twenty-twenty should be reported", func() {
				So(kinds(achievements), ShouldContain, model.KindTwentyTwenty)
			})
		})

		Convey("When a guard posts 18 points and 13 assists with 4 rebounds", func() {
			line := quietLine()
			line.Points = 18
			line.Assists = 13
			line.Rebounds = 4
			line.FGMade = 7
			line.FGAttempts = 15
			line.FTMade = 3
			line.FTAttempts = 4

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a points-assists double-double should be reported", func() {
				So(kinds(achievements), ShouldContain, model.KindPointsAssistsDD)
			})
		})
	})
}

func TestEvaluateEfficiency(t *testing.T) {
	Convey("Given efficiency milestones", t, func() {
		ev := milestone.NewEvaluator()

		Convey("When shooting 8-of-12 from the field", func() {
			line := quietLine()
			line.Points = 19
			line.FGMade = 8
			line.FGAttempts = 12
			line.ThreesMade = 2
			line.ThreeAttempts = 3
			line.FTMade = 1
			line.FTAttempts = 2

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then a hot shooting game should be reported", func() {
				So(kinds(achievements), ShouldContain, model.KindHotShooting)
			})
		})

		Convey("When shooting 8-of-14 from the field", func() {
			line := quietLine()
			line.Points = 20
			line.FGMade = 8
			line.FGAttempts = 14
			line.FTMade = 2
			line.FTAttempts = 4

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then 60% is not reached and no hot shooting is reported", func() {
				So(kinds(achievements), ShouldNotContain, model.KindHotShooting)
			})
		})

		Convey("When perfect from the line on six attempts", func() {
			line := quietLine()
			line.Points = 12
			line.FTMade = 6
			line.FTAttempts = 6
			line.FGMade = 3
			line.FGAttempts = 8

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			So(kinds(achievements), ShouldContain, model.KindPerfectFT)
		})

		Convey("When perfect from three on four attempts", func() {
			line := quietLine()
			line.Points = 16
			line.ThreesMade = 4
			line.ThreeAttempts = 4
			line.FGMade = 6
			line.FGAttempts = 10

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			So(kinds(achievements), ShouldContain, model.KindPerfectFromThree)
		})

		Convey("When perfect overall on only three shots", func() {
			line := quietLine()
			line.Points = 6
			line.FGMade = 3
			line.FGAttempts = 3
			line.ThreesMade = 0
			line.ThreeAttempts = 0
			line.FTMade = 0
			line.FTAttempts = 0

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then the attempt minimum keeps perfect FG quiet", func() {
				So(kinds(achievements), ShouldNotContain, model.KindPerfectFG)
			})
		})

		Convey("When a monster scoring night pushes game score past 35", func() {
			line := quietLine()
			line.Points = 45
			line.Rebounds = 8
			line.Assists = 6
			line.Steals = 2
			line.FGMade = 16
			line.FGAttempts = 25
			line.ThreesMade = 5
			line.ThreeAttempts = 10
			line.FTMade = 8
			line.FTAttempts = 9
			line.Turnovers = 1

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then high game score and efficient scoring should both fire", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.KindHighGameScore)
				So(got, ShouldContain, model.KindEfficientScoring)
			})
		})
	})
}

func TestEvaluateDefensiveAndPlusMinus(t *testing.T) {
	Convey("Given defensive, clean-game and plus/minus milestones", t, func() {
		ev := milestone.NewEvaluator()

		Convey("When steals and blocks sum to seven", func() {
			line := quietLine()
			line.Steals = 4
			line.Blocks = 3

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			So(kinds(achievements), ShouldContain, model.KindDefensiveMonster)
		})

		Convey("When a player goes turnover-free in 31 minutes", func() {
			line := quietLine()
			line.Turnovers = 0
			line.Minutes = 31

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			So(kinds(achievements), ShouldContain, model.KindZeroTurnover)
		})

		Convey("When a player goes turnover-free in garbage time", func() {
			line := quietLine()
			line.Turnovers = 0
			line.Minutes = 6

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			So(kinds(achievements), ShouldNotContain, model.KindZeroTurnover)
		})

		Convey("When plus/minus is +27", func() {
			line := quietLine()
			line.PlusMinus = 27

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			Convey("Then only the +25 rung should fire", func() {
				got := kinds(achievements)
				So(got, ShouldContain, model.AchievementKind("plus_25_game"))
				So(got, ShouldNotContain, model.AchievementKind("plus_20_game"))
			})
		})

		Convey("When plus/minus is -30", func() {
			line := quietLine()
			line.PlusMinus = -30

			achievements, err := ev.Evaluate(line)
			So(err, ShouldBeNil)

			So(kinds(achievements), ShouldContain, model.KindMinusTwentyFive)
		})
	})
}

func TestEvaluateEdgeCases(t *testing.T) {
	Convey("Given evaluator edge cases", t, func() {
		ev := milestone.NewEvaluator()

		Convey("When the line is unremarkable", func() {
			achievements, err := ev.Evaluate(quietLine())

			Convey("Then the result should be empty and error-free", func() {
				So(err, ShouldBeNil)
				So(achievements, ShouldBeEmpty)
			})
		})

		Convey("When the line is malformed", func() {
			line := quietLine()
			line.FGMade = 99

			achievements, err := ev.Evaluate(line)

			Convey("Then no partial results should leak out", func() {
				So(errors.Is(err, model.ErrMalformedStatLine), ShouldBeTrue)
				So(achievements, ShouldBeNil)
			})
		})

		Convey("When the same line is evaluated twice", func() {
			line := quietLine()
			line.Points = 35
			line.Rebounds = 11
			line.FGMade = 13
			line.FGAttempts = 24
			line.FTMade = 6
			line.FTAttempts = 7

			first, err1 := ev.Evaluate(line)
			second, err2 := ev.Evaluate(line)

			Convey("Then the outputs should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})
	})
}

package boxgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jnpushkin/nba-processor/pkg/logger"
)

// Constants for random number generation.
const (
	archetypeDivisor = 8
	secondsPerMinute = 60
)

// Constants for scoring ranges per archetype.
const (
	benchPointsMax     = 8
	rolePointsMin      = 6
	rolePointsRange    = 10
	starterPointsMin   = 12
	starterPointsRange = 12
	starPointsMin      = 20
	starPointsRange    = 15
	monsterPointsMin   = 38
	monsterPointsRange = 20
)

// Constants for archetype cases.
const (
	caseBench    = 0
	caseRole     = 1
	caseRole2    = 2
	caseStarter  = 3
	caseStarter2 = 4
	caseStar     = 5
	caseStar2    = 6
	caseMonster  = 7
)

// randInt returns a random int in [0, n) using crypto/rand.
func randInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateRoster creates the player pool with unique IDs, assigned to
// teams round-robin.
func generateRoster(ctx context.Context, config *Config, stats *Stats) []player {
	logger.Get().Info(ctx, "generating roster", logger.Int("numPlayers", config.NumPlayers))

	roster := make([]player, config.NumPlayers)
	for i := range roster {
		id := uuid.New().String()[:8]
		roster[i] = player{
			ID:   "player_" + id,
			Name: "Player " + strconv.Itoa(i+1),
			Team: teamCodes[i%len(teamCodes)],
		}
	}

	stats.PlayersGenerated = len(roster)
	return roster
}

// generateLine creates one player's box score for one game. Shooting
// splits are derived from the point total so every line is internally
// consistent: pts = 2*(fg-fg3) + 3*fg3 + ft and makes never exceed
// attempts.
func generateLine(p player, opponent, gameID string, date time.Time, side string) statLine {
	archetype := randInt(archetypeDivisor)

	var points, minutes int
	switch archetype {
	case caseBench:
		points = randInt(benchPointsMax + 1)
		minutes = 8 + randInt(10)
	case caseRole, caseRole2:
		points = rolePointsMin + randInt(rolePointsRange+1)
		minutes = 16 + randInt(10)
	case caseStarter, caseStarter2:
		points = starterPointsMin + randInt(starterPointsRange+1)
		minutes = 26 + randInt(8)
	case caseStar, caseStar2:
		points = starPointsMin + randInt(starPointsRange+1)
		minutes = 30 + randInt(10)
	case caseMonster:
		points = monsterPointsMin + randInt(monsterPointsRange+1)
		minutes = 36 + randInt(8)
	}

	threes := randInt(points/4 + 1)
	fts := randInt(minInt(10, points-3*threes) + 1)
	rem := points - 3*threes - fts
	if rem%2 == 1 {
		// Shift one point from a two to the free throw line to keep
		// the remainder even.
		rem--
		fts++
	}
	twos := rem / 2

	fgMade := twos + threes
	fgAttempts := fgMade + randInt(fgMade+4)
	threeAttempts := threes + randInt(4)
	ftAttempts := fts + randInt(3)

	// Stars and monsters carry heavier secondary lines; monsters flirt
	// with triple-doubles.
	rebounds := randInt(7)
	assists := randInt(6)
	if archetype >= caseStar {
		rebounds += randInt(7)
		assists += randInt(6)
	}
	if archetype == caseMonster {
		rebounds += 3 + randInt(5)
		assists += 2 + randInt(5)
	}

	return statLine{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Team:       p.Team,
		Opponent:   opponent,
		GameID:     gameID,
		Date:       date.Format("2006-01-02"),
		Side:       side,

		Points:    points,
		Rebounds:  rebounds,
		Assists:   assists,
		Steals:    randInt(4),
		Blocks:    randInt(3),
		Turnovers: randInt(5),
		Fouls:     randInt(6),

		FGMade:        fgMade,
		FGAttempts:    fgAttempts,
		ThreesMade:    threes,
		ThreeAttempts: threeAttempts,
		FTMade:        fts,
		FTAttempts:    ftAttempts,

		PlusMinus: randInt(41) - 20,
		Minutes:   fmt.Sprintf("%d:%02d", minutes, randInt(secondsPerMinute)),
	}
}

// generateDay produces every player's line for one game day. Teams are
// paired in order, the lower-indexed team hosting, so teammates share a
// game id.
func generateDay(ctx context.Context, roster []player, date time.Time, workers int) ([]statLine, error) {
	compact := date.Format("20060102")

	// Pair up the teams actually present on the roster.
	hostedBy := make(map[string]string)  // team -> home team of its game
	opponents := make(map[string]string) // team -> opponent
	var teams []string
	seen := make(map[string]bool)
	for _, p := range roster {
		if !seen[p.Team] {
			seen[p.Team] = true
			teams = append(teams, p.Team)
		}
	}
	for i := 0; i+1 < len(teams); i += 2 {
		home, away := teams[i], teams[i+1]
		hostedBy[home], hostedBy[away] = home, home
		opponents[home], opponents[away] = away, home
	}
	// An odd team out scrimmages itself against the league.
	if len(teams)%2 == 1 {
		last := teams[len(teams)-1]
		hostedBy[last] = last
		opponents[last] = "TOT"
	}

	type lineResult struct {
		index int
		line  statLine
	}

	workerCount := minInt(workers, len(roster))
	perWorker := len(roster) / workerCount
	resultChan := make(chan lineResult, len(roster))

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = len(roster)
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				p := roster[i]
				gameID := compact + "0" + hostedBy[p.Team]
				side := "away"
				if hostedBy[p.Team] == p.Team {
					side = "home"
				}
				resultChan <- lineResult{
					index: i,
					line:  generateLine(p, opponents[p.Team], gameID, date, side),
				}
			}
		}(start, end)
	}

	lines := make([]statLine, len(roster))
	for i := 0; i < len(roster); i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case res := <-resultChan:
			lines[res.index] = res.line
		}
	}
	return lines, nil
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

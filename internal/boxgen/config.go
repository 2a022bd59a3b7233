package boxgen

import "time"

// Config holds configuration for the box score generator
type Config struct {
	NumPlayers int       // Number of players on the generated roster
	NumDays    int       // Number of consecutive game days to generate
	StartDate  time.Time // Date of the first generated game day
	OutputDir  string    // Directory for the per-day JSON files
	Workers    int       // Number of concurrent generation workers
	Verbose    bool      // Enable verbose logging
}

// statLine is the box-score file shape consumed by the processor: plain
// "YYYY-MM-DD" dates and "MM:SS" minutes cells.
type statLine struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player"`
	Team       string `json:"team"`
	Opponent   string `json:"opponent"`
	GameID     string `json:"game_id"`
	Date       string `json:"date"`
	Side       string `json:"side,omitempty"`

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

	PlusMinus int    `json:"plus_minus"`
	Minutes   string `json:"mp"`
}

// player is one generated roster entry.
type player struct {
	ID   string
	Name string
	Team string
}

// Stats holds generation statistics
type Stats struct {
	PlayersGenerated int
	LinesGenerated   int
	FilesWritten     int
	MonsterGames     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

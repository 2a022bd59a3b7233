package boxgen

// Default generation parameters.
const (
	defaultNumPlayers = 60
	defaultNumDays    = 5
	defaultOutputDir  = "boxscores"
)

// File permission constants.
const (
	outputDirPermission  = 0750
	outputFilePermission = 0600
)

// teamCodes is the pool of team abbreviations players are assigned to.
// Rosters are filled round-robin, so every team fields the same number
// of players and plays every generated day.
var teamCodes = []string{
	"ATL", "BOS", "BRK", "CHI", "CHO", "CLE", "DAL", "DEN",
	"DET", "GSW", "HOU", "IND", "LAC", "LAL", "MEM", "MIA",
	"MIL", "MIN", "NOP", "NYK", "OKC", "ORL", "PHI", "PHO",
	"POR", "SAC", "SAS", "TOR", "UTA", "WAS",
}

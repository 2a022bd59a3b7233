package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/jnpushkin/nba-processor/internal/boxgen"
)

// Default configuration constants.
const (
	defaultNumPlayers = 60
	defaultNumDays    = 5
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultGenTimeout = 10 * time.Minute
)

func main() {
	var (
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of players on the generated roster")
		numDays    = flag.Int("days", defaultNumDays, "Number of consecutive game days to generate")
		startDate  = flag.String("start", "", "Date of the first game day, YYYY-MM-DD (default today)")
		outputDir  = flag.String("out", "boxscores", "Output directory for the generated files")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		logFile    = flag.String("log", "", "Log file for generator output (default: boxgen_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		boxgen.ShowHelp()
		return
	}

	// Setup logging
	if err := boxgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	var start time.Time
	if *startDate != "" {
		var err error
		start, err = time.Parse("2006-01-02", *startDate)
		if err != nil {
			os.Stderr.WriteString("Invalid -start date: " + err.Error() + "\n")
			return
		}
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultGenTimeout)
	defer cancel()

	config := &boxgen.Config{
		NumPlayers: *numPlayers,
		NumDays:    *numDays,
		StartDate:  start,
		OutputDir:  *outputDir,
		Workers:    *workers,
		Verbose:    *verbose,
	}

	if err := boxgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		return
	}
}

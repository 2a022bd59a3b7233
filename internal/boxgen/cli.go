package boxgen

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jnpushkin/nba-processor/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "boxgen_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the box score generator.
func ShowHelp() {
	os.Stdout.WriteString(`Box Score Generator
===================

Generates synthetic box-score files for exercising the milestone
processor. Each game day becomes one JSON file in the output directory,
in the same wire format the processor reads.

Usage:
  go run cmd/gen-boxscores/main.go [options]

Options:
  -players int
        Number of players on the generated roster (default 60)
  -days int
        Number of consecutive game days to generate (default 5)
  -start string
        Date of the first game day, YYYY-MM-DD (default today)
  -out string
        Output directory for the generated files (default "boxscores")
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -log string
        Log file for generator output (default: boxgen_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate with default settings
  go run cmd/gen-boxscores/main.go

  # A month of games for a big roster
  go run cmd/gen-boxscores/main.go -players 450 -days 30 -start 2026-01-01

  # Feed the processor directly
  go run cmd/gen-boxscores/main.go -out /tmp/boxscores
  go run cmd/main.go '/tmp/boxscores/*.json'
`)
}

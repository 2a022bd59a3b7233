// Package boxgen generates synthetic box-score files for exercising the
// milestone processor. Output matches the wire format the processor
// reads: one JSON array per game day, string dates and minutes cells.
package boxgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jnpushkin/nba-processor/pkg/logger"
)

// Run generates the configured number of game days and writes one file
// per day under the output directory.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	applyDefaults(config)

	logger.Get().Info(ctx, "starting box score generation",
		logger.Int("players", config.NumPlayers),
		logger.Int("days", config.NumDays),
		logger.String("startDate", config.StartDate.Format("2006-01-02")),
		logger.String("outputDir", config.OutputDir),
		logger.Int("workers", config.Workers))

	if err := os.MkdirAll(config.OutputDir, outputDirPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	roster := generateRoster(ctx, config, stats)

	for day := 0; day < config.NumDays; day++ {
		date := config.StartDate.AddDate(0, 0, day)

		lines, err := generateDay(ctx, roster, date, config.Workers)
		if err != nil {
			return fmt.Errorf("generating day %s: %w", date.Format("2006-01-02"), err)
		}

		for _, line := range lines {
			if line.Points >= monsterPointsMin {
				stats.MonsterGames++
			}
		}
		stats.LinesGenerated += len(lines)

		if err := writeDayFile(ctx, config, date, lines); err != nil {
			return err
		}
		stats.FilesWritten++
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "generation completed successfully")
	return nil
}

// applyDefaults fills unset config fields.
func applyDefaults(config *Config) {
	if config.NumPlayers <= 0 {
		config.NumPlayers = defaultNumPlayers
	}
	if config.NumDays <= 0 {
		config.NumDays = defaultNumDays
	}
	if config.StartDate.IsZero() {
		config.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if config.OutputDir == "" {
		config.OutputDir = defaultOutputDir
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU() * 2
	}
}

// writeDayFile renders one game day as an indented JSON array.
func writeDayFile(ctx context.Context, config *Config, date time.Time, lines []statLine) error {
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal day %s: %w", date.Format("2006-01-02"), err)
	}
	data = append(data, '\n')

	path := filepath.Join(config.OutputDir, date.Format("20060102")+".json")
	if err := os.WriteFile(path, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if config.Verbose {
		logger.Get().Info(ctx, "wrote box score file",
			logger.String("path", path),
			logger.Int("lines", len(lines)))
	}
	return nil
}

// displayFinalStats prints the final generation statistics.
func displayFinalStats(stats *Stats) {
	var linesPerSecond float64
	if stats.Duration > 0 {
		linesPerSecond = float64(stats.LinesGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("linesGenerated", stats.LinesGenerated),
		logger.Int("filesWritten", stats.FilesWritten),
		logger.Int("monsterGames", stats.MonsterGames),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("linesPerSecond", linesPerSecond))
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	app "github.com/jnpushkin/nba-processor/internal/app"
	"github.com/jnpushkin/nba-processor/internal/config"
	"github.com/jnpushkin/nba-processor/internal/domain/model"
	"github.com/jnpushkin/nba-processor/pkg/logger"
	"github.com/jnpushkin/nba-processor/pkg/metrics"
)

// Metrics server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// wireStatLine is the box-score file shape. Dates arrive as plain
// "YYYY-MM-DD" strings and minutes as "MM:SS" cells, both normalized here
// before the line enters the domain.
type wireStatLine struct {
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

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("nba-processor: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Initialize logging
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Optional Prometheus endpoint for long batch runs.
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	// Box score input: positional args win, then the configured glob.
	patterns := os.Args[1:]
	if len(patterns) == 0 && cfg.InputGlob != "" {
		patterns = []string{cfg.InputGlob}
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no input: pass box score files or set NBA_INPUT_GLOB")
	}

	lines, err := readStatLines(patterns)
	if err != nil {
		return err
	}
	log.Info(ctx, "loaded box scores", logger.Int("statLines", len(lines)))

	careerSteps := make(map[model.StatCategory]int, len(cfg.CareerSteps))
	for name, step := range cfg.CareerSteps {
		careerSteps[model.StatCategory(name)] = step
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithLedgerPath(cfg.LedgerPath),
		app.WithMultiCategoryFloor(cfg.MultiCategoryFloor),
		app.WithCareerSteps(careerSteps),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}
	defer svc.Stop()

	report, err := svc.Process(ctx, lines)
	if err != nil {
		return fmt.Errorf("processing run: %w", err)
	}

	if err := writeReport(report, cfg.ReportPath); err != nil {
		return err
	}

	if len(report.PlayerErrors) > 0 {
		log.Warn(ctx, "run completed with player errors",
			logger.Int("playerErrors", len(report.PlayerErrors)),
		)
	}
	return nil
}

// readStatLines expands the glob patterns and decodes every matched file.
// Each file holds a JSON array of box-score stat lines.
func readStatLines(patterns []string) ([]model.GameStatLine, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %v", patterns)
	}
	sort.Strings(paths)

	var lines []model.GameStatLine
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var wire []wireStatLine
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		for i, w := range wire {
			line, err := fromWire(w)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, i, err)
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// fromWire converts a decoded file entry to a domain stat line. Validation
// proper happens in the evaluator; only representation errors surface here.
func fromWire(w wireStatLine) (model.GameStatLine, error) {
	var date time.Time
	if w.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", w.Date)
		if err != nil {
			date, err = time.Parse(time.RFC3339, w.Date)
			if err != nil {
				return model.GameStatLine{}, fmt.Errorf("unparseable date %q", w.Date)
			}
		}
	}

	minutes, err := model.ParseMinutes(w.Minutes)
	if err != nil {
		return model.GameStatLine{}, err
	}

	return model.GameStatLine{
		PlayerID:   w.PlayerID,
		PlayerName: w.PlayerName,
		Team:       w.Team,
		Opponent:   w.Opponent,
		GameID:     w.GameID,
		Date:       date,
		Side:       w.Side,

		Points:    w.Points,
		Rebounds:  w.Rebounds,
		Assists:   w.Assists,
		Steals:    w.Steals,
		Blocks:    w.Blocks,
		Turnovers: w.Turnovers,
		Fouls:     w.Fouls,

		FGMade:        w.FGMade,
		FGAttempts:    w.FGAttempts,
		ThreesMade:    w.ThreesMade,
		ThreeAttempts: w.ThreeAttempts,
		FTMade:        w.FTMade,
		FTAttempts:    w.FTAttempts,

		PlusMinus: w.PlusMinus,
		Minutes:   minutes,
	}, nil
}

// writeReport renders the run report as indented JSON to path, or stdout
// when path is empty.
func writeReport(report *app.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// serveMetrics exposes the custom registry until the run finishes.
func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "metrics server failed", logger.Error(err))
	}
}

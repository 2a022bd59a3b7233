// Package config defines processor configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory player batch queue.
	QueueSize int `koanf:"queue_size"`

	// LedgerPath is the JSON snapshot file for the witnessed ledger.
	LedgerPath string `koanf:"ledger_path"`

	// InputGlob selects the box score files to process, e.g. "data/*.json".
	InputGlob string `koanf:"input_glob"`

	// ReportPath is where the run report is written. Empty means stdout.
	ReportPath string `koanf:"report_path"`

	// MetricsAddr exposes Prometheus metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// MultiCategoryFloor is the per-category minimum for double/triple/
	// quadruple double detection.
	MultiCategoryFloor int `koanf:"multi_category_floor"`

	// CareerSteps overrides the career milestone step per category,
	// e.g. {"points": 1000, "rebounds": 500}.
	CareerSteps map[string]int `koanf:"career_steps"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{
		LogLevel:           "info",
		WorkerCount:        runtime.NumCPU() * 2,
		QueueSize:          4096,
		LedgerPath:         "witnessed_milestones.json",
		InputGlob:          "",
		ReportPath:         "",
		MetricsAddr:        "",
		MultiCategoryFloor: 10,
		CareerSteps:        map[string]int{},
	}
	return c
}

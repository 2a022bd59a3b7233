package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if NBA_CONFIG is set
//  3. env (prefix NBA_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("NBA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: NBA_LEDGER_PATH, NBA_QUEUE_SIZE, ...
	// Map env keys like NBA_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("NBA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "nba_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations that cannot run.
func (c *Config) validate() error {
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker_count must not be negative", ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("%w: ledger_path must not be empty", ErrInvalidConfig)
	}
	if c.MultiCategoryFloor < 1 {
		return fmt.Errorf("%w: multi_category_floor must be positive", ErrInvalidConfig)
	}
	for category, step := range c.CareerSteps {
		if step < 1 {
			return fmt.Errorf("%w: career step for %s must be positive", ErrInvalidConfig, category)
		}
	}
	return nil
}

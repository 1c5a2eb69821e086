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
//  2. file (YAML) if FARMLINE_CONFIG is set
//  3. env (prefix FARMLINE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("FARMLINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FARMLINE_ADDR, FARMLINE_WORKER_COUNT, ...
	// Map env keys like FARMLINE_WORKER_COUNT -> worker_count (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("FARMLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "farmline_")
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

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Season < 1900 {
		return fmt.Errorf("%w: season %d out of range", ErrInvalidConfig, c.Season)
	}
	if c.PitchSampleThreshold < 1 || c.GameLogDayThreshold < 1 {
		return fmt.Errorf("%w: source thresholds must be positive", ErrInvalidConfig)
	}
	if c.MinCohortSize < 1 || c.MinGames < 1 {
		return fmt.Errorf("%w: cohort and game floors must be positive", ErrInvalidConfig)
	}
	if c.RunInterval < 0 {
		return fmt.Errorf("%w: run_interval must not be negative", ErrInvalidConfig)
	}
	switch c.TrendStrategy {
	case "proportion_z_test", "relative_threshold":
	default:
		return fmt.Errorf("%w: unknown trend_strategy %q", ErrInvalidConfig, c.TrendStrategy)
	}
	return nil
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Season selects which season's tables and cohorts anchor a run.
	Season int `koanf:"season"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// PitchSampleThreshold is the minimum tracked-pitch sample for the
	// pitch-data source.
	PitchSampleThreshold int `koanf:"pitch_sample_threshold"`

	// GameLogDayThreshold is the minimum days of coverage for the
	// game-log fallback source.
	GameLogDayThreshold int `koanf:"game_log_day_threshold"`

	// MinGames is the floor below which a factor-table scope is unreliable.
	MinGames int `koanf:"min_games"`

	// MinCohortSize is the floor below which percentiles are undefined.
	MinCohortSize int `koanf:"min_cohort_size"`

	// TrendStrategy selects the breakout significance gate:
	// proportion_z_test or relative_threshold.
	TrendStrategy string `koanf:"trend_strategy"`

	// SnapshotPath points at the input snapshot JSON for rank and serve.
	SnapshotPath string `koanf:"snapshot_path"`

	// OutputPath receives the ranking result JSON; empty writes to stdout.
	OutputPath string `koanf:"output_path"`

	// RunInterval is how often serve mode re-ranks from the snapshot
	// path. Zero disables the scheduler; serve ranks once at startup.
	RunInterval time.Duration `koanf:"run_interval"`

	// MaxListLimit caps GET /rankings?limit.
	MaxListLimit int `koanf:"max_list_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		Season:               time.Now().Year(),
		WorkerCount:          runtime.NumCPU(),
		PitchSampleThreshold: 100,
		GameLogDayThreshold:  30,
		MinGames:             50,
		MinCohortSize:        20,
		TrendStrategy:        "proportion_z_test",
		SnapshotPath:         "snapshot.json",
		OutputPath:           "",
		RunInterval:          0,
		MaxListLimit:         500,
	}
}

// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/draftedge/farmline/internal/adapters/repository"
	"github.com/draftedge/farmline/internal/adapters/snapshot"
	"github.com/draftedge/farmline/internal/domain/adjust"
	"github.com/draftedge/farmline/internal/domain/factors"
	"github.com/draftedge/farmline/internal/domain/model"
	"github.com/draftedge/farmline/internal/domain/source"
	"github.com/draftedge/farmline/internal/engine"
	"github.com/draftedge/farmline/pkg/logger"
	"github.com/draftedge/farmline/pkg/metrics"
)

// Trend strategy names accepted by WithTrendStrategy.
const (
	StrategyZTest             = "proportion_z_test"
	StrategyRelativeThreshold = "relative_threshold"
)

// Defaults for the relative-threshold gate.
const (
	defaultRelChange   = 0.10
	defaultRelTrials   = 10
	defaultMinGames    = 50
	defaultMinCohort   = 20
	defaultPitchSample = 100
	defaultGameLogDays = 30
)

// Service runs ranking batches and serves the published results. It
// implements the API dependency bundle.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        repository.Store
	orchestrator *engine.Orchestrator

	// Configuration
	season        int
	workerCount   int
	pitchSample   int
	gameLogDays   int
	minGames      int
	minCohort     int
	trendStrategy string
	snapshotPath  string
	runInterval   time.Duration

	// State
	started    bool
	stopCh     chan struct{}
	lastReport *engine.Report

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithSeason sets the season runs are anchored to.
func WithSeason(season int) Option {
	return func(s *Service) {
		if season > 0 {
			s.season = season
		}
	}
}

// WithSourceThresholds sets the pitch-sample and game-log-day floors for
// source resolution.
func WithSourceThresholds(pitchSample, gameLogDays int) Option {
	return func(s *Service) {
		if pitchSample > 0 {
			s.pitchSample = pitchSample
		}
		if gameLogDays > 0 {
			s.gameLogDays = gameLogDays
		}
	}
}

// WithMinGames sets the factor-table reliability floor.
func WithMinGames(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minGames = n
		}
	}
}

// WithMinCohortSize sets the percentile cohort floor.
func WithMinCohortSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minCohort = n
		}
	}
}

// WithTrendStrategy selects the breakout significance gate by name.
func WithTrendStrategy(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.trendStrategy = name
		}
	}
}

// WithSnapshotPath sets where scheduled runs load their input from.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		s.snapshotPath = path
	}
}

// WithRunInterval enables the run scheduler. Zero disables it.
func WithRunInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.runInterval = interval
		}
	}
}

// WithStore sets a custom ranking store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		season:        time.Now().Year(),
		workerCount:   runtime.NumCPU(),
		pitchSample:   defaultPitchSample,
		gameLogDays:   defaultGameLogDays,
		minGames:      defaultMinGames,
		minCohort:     defaultMinCohort,
		trendStrategy: StrategyZTest,
		stopCh:        make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start wires the engine and store, runs the first batch if a snapshot
// path is configured, and starts the scheduler when an interval is set.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewSnapStore()
	}

	strategy, err := s.buildStrategy()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.orchestrator = engine.New(
		engine.WithWorkerCount(s.workerCount),
		engine.WithMinCohortSize(s.minCohort),
		engine.WithResolver(source.NewResolver(
			source.WithPitchThreshold(s.pitchSample),
			source.WithGameLogThreshold(s.gameLogDays),
		)),
		engine.WithFactorBuilder(factors.NewBuilder(factors.WithMinGames(s.minGames))),
		engine.WithTrendDetector(adjust.NewTrendDetector(adjust.WithStrategy(strategy))),
	)
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "ranking service started",
		logger.Int("season", s.season),
		logger.Int("workers", s.workerCount),
		logger.String("trend_strategy", s.trendStrategy),
	)

	if s.snapshotPath != "" {
		if err := s.RunFromPath(ctx, s.snapshotPath); err != nil {
			return fmt.Errorf("initial ranking run: %w", err)
		}
	}
	if s.runInterval > 0 {
		go s.scheduleRuns(ctx)
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "ranking service stopped")
}

// RunFromPath loads a snapshot from disk and runs one ranking batch.
func (s *Service) RunFromPath(ctx context.Context, path string) error {
	snap, err := snapshot.Load(ctx, path)
	if err != nil {
		return err
	}
	_, err = s.Run(ctx, snap)
	return err
}

// Run executes one batch over the snapshot and publishes the result.
func (s *Service) Run(ctx context.Context, snap *model.Snapshot) (*engine.Result, error) {
	result, err := s.orchestrator.Run(ctx, snap)
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordErrorByComponent("engine", "run_failed")
		return nil, err
	}

	meta := repository.Meta{
		RunID:       result.Report.RunID,
		Season:      result.Report.Season,
		GeneratedAt: result.Report.GeneratedAt,
	}
	if err := s.store.Replace(ctx, meta, result.Rankings); err != nil {
		metrics.RecordErrorByComponent("store", "replace_failed")
		return nil, fmt.Errorf("publish rankings: %w", err)
	}

	s.mu.Lock()
	s.lastReport = &result.Report
	s.mu.Unlock()

	return result, nil
}

// scheduleRuns re-ranks from the snapshot path on a fixed interval until
// the service stops or the context ends. A failed run keeps the previous
// snapshot published and the scheduler alive.
func (s *Service) scheduleRuns(ctx context.Context) {
	ticker := time.NewTicker(s.runInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunFromPath(ctx, s.snapshotPath); err != nil {
				s.logger.Error(ctx, "scheduled ranking run failed", logger.Error(err))
			}
		}
	}
}

// List returns published rows matching the filter.
func (s *Service) List(ctx context.Context, f repository.Filter) ([]model.CompositeRanking, error) {
	return s.store.List(ctx, f)
}

// Get returns one prospect's published row.
func (s *Service) Get(ctx context.Context, prospectID string) (model.CompositeRanking, error) {
	return s.store.Get(ctx, prospectID)
}

// Meta returns metadata for the published snapshot.
func (s *Service) Meta(ctx context.Context) (repository.Meta, bool) {
	return s.store.Meta(ctx)
}

// Count returns the number of published rows.
func (s *Service) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"season":         s.season,
		"worker_count":   s.workerCount,
		"trend_strategy": s.trendStrategy,
	}
	if s.store != nil {
		stats["prospects_ranked"] = s.store.Count(context.Background())
	}
	if s.lastReport != nil {
		stats["last_run_id"] = s.lastReport.RunID
		stats["last_generated_at"] = s.lastReport.GeneratedAt
		stats["source_counts"] = s.lastReport.SourceCounts
		stats["missing_grades"] = s.lastReport.MissingGrades
		stats["undefined_percentiles"] = s.lastReport.UndefinedPercentiles
		stats["factor_fallbacks"] = s.lastReport.FactorFallbacks
		stats["duplicate_games"] = s.lastReport.DuplicateGames
		stats["elapsed_ms"] = s.lastReport.ElapsedMS
	}
	return stats
}

func (s *Service) buildStrategy() (adjust.Strategy, error) {
	switch s.trendStrategy {
	case StrategyZTest:
		return adjust.NewZTest(), nil
	case StrategyRelativeThreshold:
		return adjust.NewRelativeThreshold(defaultRelChange, defaultRelTrials), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s.trendStrategy)
	}
}

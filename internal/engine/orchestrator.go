package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/draftedge/farmline/internal/domain/adjust"
	"github.com/draftedge/farmline/internal/domain/cohort"
	"github.com/draftedge/farmline/internal/domain/composite"
	"github.com/draftedge/farmline/internal/domain/factors"
	"github.com/draftedge/farmline/internal/domain/model"
	"github.com/draftedge/farmline/internal/domain/source"
	"github.com/draftedge/farmline/pkg/logger"
	"github.com/draftedge/farmline/pkg/metrics"
)

// Default orchestrator configuration constants.
const (
	defaultMinCohort = 20
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workerCount = n
		}
	}
}

// WithMinCohortSize sets the minimum cohort size for defined percentiles.
func WithMinCohortSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.minCohort = n
		}
	}
}

// WithResolver sets the metric-source resolver.
func WithResolver(r *source.Resolver) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithFactorBuilder sets the factor-table builder.
func WithFactorBuilder(b *factors.Builder) Option {
	return func(o *Orchestrator) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithTrendDetector sets the breakout detector.
func WithTrendDetector(d *adjust.TrendDetector) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.trend = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator drives a complete ranking run. Construction is cheap; all
// per-run state lives in the RankingContext so an orchestrator can be
// reused across scheduled runs.
type Orchestrator struct {
	workerCount int
	minCohort   int
	resolver    *source.Resolver
	builder     *factors.Builder
	trend       *adjust.TrendDetector
	logger      logger.Logger
}

// New creates an orchestrator with configuration options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		minCohort: defaultMinCohort,
		resolver:  source.NewResolver(),
		builder:   factors.NewBuilder(),
		trend:     adjust.NewTrendDetector(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("engine")
	}
	return o
}

// Run executes one batch over the snapshot and returns the rank-ordered
// result. Identical snapshots always produce identical scores and order:
// there is no hidden incremental state, and ties break on prospect id.
func (o *Orchestrator) Run(ctx context.Context, snap *model.Snapshot) (*Result, error) {
	if snap == nil || len(snap.Prospects) == 0 {
		return nil, ErrEmptySnapshot
	}
	start := time.Now()

	rc, err := o.buildContext(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("build ranking context: %w", err)
	}
	o.logger.Info(ctx, "ranking context built",
		logger.Int("prospects", len(snap.Prospects)),
		logger.Int("league_tables", rc.Tables.LeagueCount()),
		logger.Int("position_tables", rc.Tables.PositionCount()),
		logger.Int("duplicate_games", rc.duplicateGames),
	)

	rows := newPool(o.workerCount).run(ctx, snap.Prospects, func(p model.Prospect) model.CompositeRanking {
		return o.scoreProspect(rc, p)
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ranking run canceled: %w", err)
	}

	sortRows(rows)

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = row.CompositeScore
	}
	classifier := composite.NewTierClassifier(scores)
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Tier, rows[i].TierLabel = classifier.Classify(rows[i].CompositeScore)
	}

	report := o.buildReport(rc, rows, time.Since(start))
	metrics.RecordRunCompleted()
	metrics.RecordRunDuration(float64(report.ElapsedMS))
	metrics.UpdateProspectsRanked(len(rows))
	for src, n := range report.SourceCounts {
		metrics.UpdateSourceCount(string(src), n)
	}
	o.logger.Info(ctx, "ranking run complete",
		logger.String("run_id", report.RunID),
		logger.Int("prospects", report.Prospects),
		logger.Int("missing_grades", report.MissingGrades),
		logger.Int("undefined_percentiles", report.UndefinedPercentiles),
	)

	return &Result{Rankings: rows, Report: report}, nil
}

// scoreProspect computes one unranked row. It never fails: every missing
// or malformed input degrades to a lower-precedence source or a neutral
// adjustment, and the prospect is still ranked.
func (o *Orchestrator) scoreProspect(rc *RankingContext, p model.Prospect) model.CompositeRanking {
	group := p.Group()
	res := o.resolver.Resolve(rc.Pitch(p.ID), rc.GameLog(p.ID))

	breakdown := model.PerformanceBreakdown{Source: res.Source}

	baseFV := composite.NeutralBaseFV
	if grade, ok := rc.Grade(p.ID); ok && grade.OverallFV >= 20 && grade.OverallFV <= 80 {
		baseFV = grade.OverallFV
	} else {
		breakdown.Tags = append(breakdown.Tags, "missing_grade")
		breakdown.Note = "no scouting grade; ranked from neutral baseline"
	}

	var perf float64
	switch res.Source {
	case model.SourcePitchData:
		set := res.PitchSet
		breakdown.SampleSize = set.SampleSize
		breakdown.Metrics = o.resolvePercentiles(rc, set.Readings(group), set.Season, set.Level, group)
		var tags []string
		perf, breakdown.CompositePercentile, tags = adjust.Performance(breakdown.Metrics)
		breakdown.Tags = append(breakdown.Tags, tags...)
	case model.SourceGameLogs:
		gl := res.GameLog
		breakdown.SampleSize = gl.PA
		breakdown.DaysCovered = gl.DaysCovered
		breakdown.Metrics = o.resolvePercentiles(rc, gl.Readings(group), gl.Season, gl.Level, group)
		var tags []string
		perf, breakdown.CompositePercentile, tags = adjust.Performance(breakdown.Metrics)
		breakdown.Tags = append(breakdown.Tags, tags...)
	case model.SourceInsufficient:
		breakdown.Note = joinNote(breakdown.Note, "sample below thresholds; performance modifier withheld")
	case model.SourceNoData:
		breakdown.Note = joinNote(breakdown.Note, "no performance data; ranked on scouting grade alone")
	}

	trendAdj, trendTags := o.trend.Detect(rc.Trend(p.ID), group)
	breakdown.Tags = append(breakdown.Tags, trendTags...)

	ageAdj, ageTags := o.ageAdjustment(rc, p)
	breakdown.Tags = append(breakdown.Tags, ageTags...)

	score, total := composite.Score(baseFV, perf, trendAdj, ageAdj)

	return model.CompositeRanking{
		ProspectID:          p.ID,
		Name:                p.Name,
		Position:            p.Position,
		Organization:        p.Organization,
		Level:               p.Level,
		BaseFV:              baseFV,
		PerformanceModifier: perf,
		TrendAdjustment:     trendAdj,
		AgeAdjustment:       ageAdj,
		TotalAdjustment:     total,
		CompositeScore:      score,
		Breakdown:           breakdown,
	}
}

// resolvePercentiles fills in each reading's percentile from its cohort.
// Readings whose cohort is too small keep a nil percentile and are later
// excluded from the composite weighting.
func (o *Orchestrator) resolvePercentiles(rc *RankingContext, readings []model.MetricReading, season int, level model.Level, group model.PositionGroup) []model.MetricReading {
	for i := range readings {
		key := cohort.Key{Season: season, Level: level, Group: group, Metric: readings[i].Metric}
		if pct, ok := rc.Cohorts.Percentile(key, readings[i].Value); ok {
			v := pct
			readings[i].Percentile = &v
		} else {
			metrics.RecordUndefinedPercentile()
		}
	}
	return readings
}

// ageAdjustment picks the narrowest available age baseline: the position
// table when its group cleared the floor, else the level-wide table, else
// the most recent prior season at the level. With no table at all the
// adjustment is neutral.
func (o *Orchestrator) ageAdjustment(rc *RankingContext, p model.Prospect) (float64, []string) {
	lf, ok := rc.Tables.League(rc.Season, p.Level)
	if !ok {
		metrics.RecordFactorFallback("missing_table")
		return 0, []string{"no_factor_table"}
	}

	var tags []string
	if lf.Season != rc.Season {
		metrics.RecordFactorFallback("stale_season")
		tags = append(tags, "stale_factor_table")
	}

	if pf, ok := rc.Tables.Position(lf.Season, p.Level, p.Group()); ok {
		scoped := lf
		scoped.LgAvgAge = pf.PosAvgAge
		adj, ageTags := adjust.Age(p.Age, scoped)
		return adj, append(tags, ageTags...)
	}
	metrics.RecordFactorFallback("position_to_level")
	adj, ageTags := adjust.Age(p.Age, lf)
	return adj, append(tags, ageTags...)
}

// sortRows orders by composite score descending with prospect id as the
// stable secondary key, so re-runs on identical input rank identically.
func sortRows(rows []model.CompositeRanking) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CompositeScore != rows[j].CompositeScore {
			return rows[i].CompositeScore > rows[j].CompositeScore
		}
		return rows[i].ProspectID < rows[j].ProspectID
	})
}

func (o *Orchestrator) buildReport(rc *RankingContext, rows []model.CompositeRanking, elapsed time.Duration) Report {
	report := Report{
		RunID:          uuid.NewString(),
		Season:         rc.Season,
		GeneratedAt:    time.Now().UTC(),
		Prospects:      len(rows),
		SourceCounts:   make(map[model.Source]int, 4),
		DuplicateGames: rc.duplicateGames,
		ElapsedMS:      elapsed.Milliseconds(),
	}
	for _, row := range rows {
		report.SourceCounts[row.Breakdown.Source]++
		for _, r := range row.Breakdown.Metrics {
			if r.Percentile == nil {
				report.UndefinedPercentiles++
			}
		}
		for _, tag := range row.Breakdown.Tags {
			switch tag {
			case "missing_grade":
				report.MissingGrades++
			case "no_factor_table", "stale_factor_table":
				report.FactorFallbacks++
			}
		}
	}
	return report
}

func joinNote(existing, next string) string {
	if existing == "" {
		return next
	}
	return existing + "; " + next
}

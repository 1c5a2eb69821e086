// Package engine orchestrates a full ranking run: context build, parallel
// per-prospect scoring, deterministic ordering, and the batch report.
package engine

import (
	"context"

	"github.com/draftedge/farmline/internal/domain/cohort"
	"github.com/draftedge/farmline/internal/domain/dedupe"
	"github.com/draftedge/farmline/internal/domain/factors"
	"github.com/draftedge/farmline/internal/domain/model"
	"github.com/draftedge/farmline/pkg/metrics"
)

// RankingContext is the immutable per-run state shared by every worker:
// factor tables, frozen peer cohorts, and the per-prospect input records.
// It is built once per batch and only read afterwards, so workers need no
// synchronization.
type RankingContext struct {
	Season  int
	Tables  *factors.Tables
	Cohorts *cohort.Index

	grades   map[string]model.ScoutingGrade
	pitch    map[string]*model.PitchMetricSet
	gameLogs map[string]*model.GameLogAggregate
	trends   map[string]*model.TrendWindows

	duplicateGames int
}

// buildContext assembles the run state from one input snapshot. Duplicate
// game lines are dropped before the factor tables see them.
func (o *Orchestrator) buildContext(ctx context.Context, snap *model.Snapshot) (*RankingContext, error) {
	deduper := dedupe.NewInMemoryDeduper()
	games := make([]model.GameRecord, 0, len(snap.Games))
	duplicates := 0
	for _, g := range snap.Games {
		if deduper.SeenAndRecord(ctx, dedupe.Key{GameID: g.GameID, PlayerID: g.PlayerID}) {
			duplicates++
			metrics.RecordDuplicateGame()
			continue
		}
		games = append(games, g)
	}

	tables, err := o.builder.Build(ctx, games)
	if err != nil {
		return nil, err
	}

	rc := &RankingContext{
		Season:         snap.Season,
		Tables:         tables,
		grades:         make(map[string]model.ScoutingGrade, len(snap.Grades)),
		pitch:          make(map[string]*model.PitchMetricSet, len(snap.PitchMetrics)),
		gameLogs:       make(map[string]*model.GameLogAggregate, len(snap.GameLogs)),
		trends:         make(map[string]*model.TrendWindows, len(snap.Trends)),
		duplicateGames: duplicates,
	}

	for _, g := range snap.Grades {
		rc.grades[g.ProspectID] = g
	}
	for i := range snap.PitchMetrics {
		rc.pitch[snap.PitchMetrics[i].ProspectID] = &snap.PitchMetrics[i]
	}
	for i := range snap.GameLogs {
		rc.gameLogs[snap.GameLogs[i].ProspectID] = &snap.GameLogs[i]
	}
	for i := range snap.Trends {
		rc.trends[snap.Trends[i].ProspectID] = &snap.Trends[i]
	}

	rc.Cohorts = o.buildCohorts(snap)
	return rc, nil
}

// buildCohorts registers every prospect's available readings so each peer
// group percentiles against the full population, then freezes the index.
func (o *Orchestrator) buildCohorts(snap *model.Snapshot) *cohort.Index {
	ix := cohort.NewIndex(cohort.WithMinCohortSize(o.minCohort))
	byID := make(map[string]model.Prospect, len(snap.Prospects))
	for _, p := range snap.Prospects {
		byID[p.ID] = p
	}

	for i := range snap.PitchMetrics {
		set := &snap.PitchMetrics[i]
		p, ok := byID[set.ProspectID]
		if !ok {
			continue
		}
		group := p.Group()
		for _, r := range set.Readings(group) {
			ix.Add(cohort.Key{Season: set.Season, Level: set.Level, Group: group, Metric: r.Metric}, r.Value)
		}
	}
	for i := range snap.GameLogs {
		gl := &snap.GameLogs[i]
		p, ok := byID[gl.ProspectID]
		if !ok {
			continue
		}
		group := p.Group()
		for _, r := range gl.Readings(group) {
			ix.Add(cohort.Key{Season: gl.Season, Level: gl.Level, Group: group, Metric: r.Metric}, r.Value)
		}
	}

	ix.Freeze()
	return ix
}

// Grade returns the scouting grade for a prospect, if any.
func (rc *RankingContext) Grade(id string) (model.ScoutingGrade, bool) {
	g, ok := rc.grades[id]
	return g, ok
}

// Pitch returns the pitch metric set for a prospect, if any.
func (rc *RankingContext) Pitch(id string) *model.PitchMetricSet {
	return rc.pitch[id]
}

// GameLog returns the game-log aggregate for a prospect, if any.
func (rc *RankingContext) GameLog(id string) *model.GameLogAggregate {
	return rc.gameLogs[id]
}

// Trend returns the trend windows for a prospect, if any.
func (rc *RankingContext) Trend(id string) *model.TrendWindows {
	return rc.trends[id]
}

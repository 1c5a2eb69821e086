package engine_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/draftedge/farmline/internal/domain/adjust"
	"github.com/draftedge/farmline/internal/domain/model"
	engine "github.com/draftedge/farmline/internal/engine"
	"github.com/draftedge/farmline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// testSnapshot builds a self-consistent AA season: 40 hitter prospects
// with pitch data spread across contact rates, a full slate of games for
// the factor tables, and a handful of degraded-data prospects.
func testSnapshot() *model.Snapshot {
	snap := &model.Snapshot{Season: 2025}

	// Games for the factor tables: 60 games, 18 players each.
	for g := 0; g < 60; g++ {
		for p := 0; p < 18; p++ {
			pos := "SS"
			if p%3 == 0 {
				pos = "SP"
			}
			snap.Games = append(snap.Games, model.GameRecord{
				GameID:    fmt.Sprintf("g-%d", g),
				PlayerID:  fmt.Sprintf("pl-%d", p),
				Season:    2025,
				Level:     model.LevelAA,
				Position:  pos,
				PlayerAge: 20 + float64(p%6),
				PA:        4, AB: 4, H: 1, Doubles: 1, SO: 1,
			})
		}
	}

	// Hitter position-group average age works out to 23.0; pinning the
	// prospects there keeps the age adjustment neutral in assertions.
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("p-%02d", i)
		snap.Prospects = append(snap.Prospects, model.Prospect{
			ID: id, Name: "Prospect " + id, Position: "SS",
			Organization: "NYM", Level: model.LevelAA, Age: 23.0,
		})
		snap.Grades = append(snap.Grades, model.ScoutingGrade{
			ProspectID: id, Source: "internal", OverallFV: 55,
		})
		snap.PitchMetrics = append(snap.PitchMetrics, model.PitchMetricSet{
			ProspectID: id, Season: 2025, Level: model.LevelAA,
			SampleSize:  150,
			ContactRate: 0.60 + float64(i)*0.005,
			WhiffRate:   0.25,
			ChaseRate:   0.30,
		})
	}

	return snap
}

func TestOrchestrator_Run(t *testing.T) {
	Convey("Given a full snapshot", t, func() {
		snap := testSnapshot()
		o := engine.New(engine.WithWorkerCount(4))

		result, err := o.Run(context.Background(), snap)
		So(err, ShouldBeNil)
		So(result.Rankings, ShouldHaveLength, 40)

		Convey("Then every row satisfies the score identity and bounds", func() {
			for _, row := range result.Rankings {
				So(row.CompositeScore, ShouldAlmostEqual,
					row.BaseFV+row.PerformanceModifier+row.TrendAdjustment+row.AgeAdjustment, 1e-9)
				So(row.TotalAdjustment, ShouldAlmostEqual,
					row.PerformanceModifier+row.TrendAdjustment+row.AgeAdjustment, 1e-9)
				So(row.PerformanceModifier, ShouldBeBetweenOrEqual, -10, 10)
				So(row.TrendAdjustment, ShouldBeBetweenOrEqual, -5, 5)
				So(row.AgeAdjustment, ShouldBeBetweenOrEqual, -5, 5)
			}
		})

		Convey("And ranks run 1..N in score order", func() {
			for i, row := range result.Rankings {
				So(row.Rank, ShouldEqual, i+1)
				if i > 0 {
					So(row.CompositeScore, ShouldBeLessThanOrEqualTo, result.Rankings[i-1].CompositeScore)
				}
				So(row.Tier, ShouldBeBetweenOrEqual, 1, 5)
				So(row.TierLabel, ShouldNotBeEmpty)
			}
		})

		Convey("And every row resolved to pitch_data", func() {
			So(result.Report.SourceCounts[model.SourcePitchData], ShouldEqual, 40)
		})

		Convey("And the best contact hitter outranks the worst", func() {
			var best, worst model.CompositeRanking
			for _, row := range result.Rankings {
				if row.ProspectID == "p-39" {
					best = row
				}
				if row.ProspectID == "p-00" {
					worst = row
				}
			}
			So(best.Rank, ShouldBeLessThan, worst.Rank)
		})

		Convey("And a mid-distribution prospect scores near its base FV", func() {
			for _, row := range result.Rankings {
				if row.ProspectID != "p-19" {
					continue
				}
				So(row.Breakdown.CompositePercentile, ShouldNotBeNil)
				So(*row.Breakdown.CompositePercentile, ShouldBeBetween, 40, 60)
				So(row.PerformanceModifier, ShouldBeBetween, -1, 1)
				So(row.AgeAdjustment, ShouldAlmostEqual, 0, 1e-9)
				So(row.CompositeScore, ShouldBeBetween, 54, 56)
			}
		})
	})
}

func TestOrchestrator_Idempotence(t *testing.T) {
	Convey("Given two runs over identical input", t, func() {
		o := engine.New(engine.WithWorkerCount(8))

		first, err1 := o.Run(context.Background(), testSnapshot())
		second, err2 := o.Run(context.Background(), testSnapshot())
		So(err1, ShouldBeNil)
		So(err2, ShouldBeNil)

		Convey("Then order and scores are byte-identical", func() {
			So(len(second.Rankings), ShouldEqual, len(first.Rankings))
			for i := range first.Rankings {
				So(second.Rankings[i].ProspectID, ShouldEqual, first.Rankings[i].ProspectID)
				So(second.Rankings[i].CompositeScore, ShouldEqual, first.Rankings[i].CompositeScore)
				So(second.Rankings[i].Rank, ShouldEqual, first.Rankings[i].Rank)
				So(second.Rankings[i].Tier, ShouldEqual, first.Rankings[i].Tier)
			}
		})
	})
}

func TestOrchestrator_Degradation(t *testing.T) {
	Convey("Given a snapshot with degraded-data prospects", t, func() {
		snap := testSnapshot()

		// Zero pitch sample, no game log: insufficient_data.
		snap.Prospects = append(snap.Prospects, model.Prospect{
			ID: "thin-1", Name: "Thin Sample", Position: "SS",
			Organization: "BOS", Level: model.LevelAA, Age: 23,
		})
		snap.Grades = append(snap.Grades, model.ScoutingGrade{ProspectID: "thin-1", OverallFV: 50})
		snap.PitchMetrics = append(snap.PitchMetrics, model.PitchMetricSet{
			ProspectID: "thin-1", Season: 2025, Level: model.LevelAA, SampleSize: 0,
			ContactRate: 0.99, WhiffRate: 0.01, ChaseRate: 0.01,
		})

		// Nothing at all, not even a grade: no_data at the neutral baseline.
		snap.Prospects = append(snap.Prospects, model.Prospect{
			ID: "ghost-1", Name: "No Data", Position: "CF",
			Organization: "SEA", Level: model.LevelAA, Age: 23,
		})

		o := engine.New(engine.WithWorkerCount(4))
		result, err := o.Run(context.Background(), snap)
		So(err, ShouldBeNil)
		So(result.Rankings, ShouldHaveLength, 42)

		rowByID := make(map[string]model.CompositeRanking, len(result.Rankings))
		for _, row := range result.Rankings {
			rowByID[row.ProspectID] = row
		}

		Convey("Then a zero pitch sample never resolves to pitch_data", func() {
			row := rowByID["thin-1"]
			So(row.Breakdown.Source, ShouldEqual, model.SourceInsufficient)
			So(row.PerformanceModifier, ShouldEqual, 0)
			So(row.CompositeScore, ShouldAlmostEqual, 50+row.AgeAdjustment, 1e-9)
		})

		Convey("And a prospect with nothing is still ranked on the neutral baseline", func() {
			row := rowByID["ghost-1"]
			So(row.Breakdown.Source, ShouldEqual, model.SourceNoData)
			So(row.BaseFV, ShouldEqual, 35.0)
			So(row.Breakdown.Note, ShouldNotBeEmpty)
			So(row.Breakdown.Tags, ShouldContain, "missing_grade")
			So(row.Rank, ShouldBeBetweenOrEqual, 1, 42)
		})

		Convey("And the report counts the degradations without aborting", func() {
			So(result.Report.SourceCounts[model.SourceInsufficient], ShouldEqual, 1)
			So(result.Report.SourceCounts[model.SourceNoData], ShouldEqual, 1)
			So(result.Report.MissingGrades, ShouldEqual, 1)
		})
	})
}

func TestOrchestrator_SmallCohort(t *testing.T) {
	Convey("Given two lonely prospects at a level with no peers", t, func() {
		snap := testSnapshot()
		for i := 0; i < 2; i++ {
			id := fmt.Sprintf("lone-%d", i)
			snap.Prospects = append(snap.Prospects, model.Prospect{
				ID: id, Name: id, Position: "SS",
				Organization: "TB", Level: model.LevelHighA, Age: 21,
			})
			snap.Grades = append(snap.Grades, model.ScoutingGrade{ProspectID: id, OverallFV: 45})
			snap.PitchMetrics = append(snap.PitchMetrics, model.PitchMetricSet{
				ProspectID: id, Season: 2025, Level: model.LevelHighA, SampleSize: 200,
				ContactRate: 0.70, WhiffRate: 0.20, ChaseRate: 0.25,
			})
		}

		o := engine.New(engine.WithWorkerCount(2))
		result, err := o.Run(context.Background(), snap)
		So(err, ShouldBeNil)

		Convey("Then their percentiles are undefined and excluded, not errors", func() {
			for _, row := range result.Rankings {
				if row.ProspectID != "lone-0" && row.ProspectID != "lone-1" {
					continue
				}
				So(row.Breakdown.Source, ShouldEqual, model.SourcePitchData)
				So(row.Breakdown.CompositePercentile, ShouldBeNil)
				So(row.PerformanceModifier, ShouldEqual, 0)
				So(row.Breakdown.Tags, ShouldContain, "no_percentile_cohorts")
			}
			So(result.Report.UndefinedPercentiles, ShouldBeGreaterThanOrEqualTo, 6)
		})
	})
}

func TestOrchestrator_Ties(t *testing.T) {
	Convey("Given two prospects with identical inputs", t, func() {
		snap := testSnapshot()
		for _, id := range []string{"twin-b", "twin-a"} {
			snap.Prospects = append(snap.Prospects, model.Prospect{
				ID: id, Name: id, Position: "SS",
				Organization: "LAD", Level: model.LevelAA, Age: 23,
			})
			snap.Grades = append(snap.Grades, model.ScoutingGrade{ProspectID: id, OverallFV: 60})
			snap.PitchMetrics = append(snap.PitchMetrics, model.PitchMetricSet{
				ProspectID: id, Season: 2025, Level: model.LevelAA, SampleSize: 180,
				ContactRate: 0.72, WhiffRate: 0.25, ChaseRate: 0.30,
			})
		}

		o := engine.New(engine.WithWorkerCount(4))
		result, err := o.Run(context.Background(), snap)
		So(err, ShouldBeNil)

		Convey("Then the tie breaks on prospect id, deterministically", func() {
			var posA, posB int
			var scoreA, scoreB float64
			for i, row := range result.Rankings {
				switch row.ProspectID {
				case "twin-a":
					posA, scoreA = i, row.CompositeScore
				case "twin-b":
					posB, scoreB = i, row.CompositeScore
				}
			}
			So(scoreA, ShouldEqual, scoreB)
			So(posA, ShouldEqual, posB-1)
		})
	})
}

func TestOrchestrator_TrendIntegration(t *testing.T) {
	Convey("Given a prospect with a significant two-metric improvement", t, func() {
		snap := testSnapshot()
		snap.Trends = append(snap.Trends, model.TrendWindows{
			ProspectID: "p-20", RecentDays: 30, BaselineDays: 60,
			Recent: []model.WindowSample{
				{Metric: model.MetricContactRate, Successes: 170, Trials: 200},
				{Metric: model.MetricHardHitRate, Successes: 90, Trials: 200},
			},
			Baseline: []model.WindowSample{
				{Metric: model.MetricContactRate, Successes: 140, Trials: 200},
				{Metric: model.MetricHardHitRate, Successes: 60, Trials: 200},
			},
		})

		o := engine.New(
			engine.WithWorkerCount(4),
			engine.WithTrendDetector(adjust.NewTrendDetector(adjust.WithStrategy(adjust.NewZTest()))),
		)
		result, err := o.Run(context.Background(), snap)
		So(err, ShouldBeNil)

		Convey("Then the breakout lifts the composite within bounds", func() {
			for _, row := range result.Rankings {
				if row.ProspectID != "p-20" {
					continue
				}
				So(row.TrendAdjustment, ShouldBeGreaterThan, 0)
				So(row.TrendAdjustment, ShouldBeLessThanOrEqualTo, 5)
				So(row.Breakdown.Tags, ShouldContain, "breakout")
			}
		})
	})
}

func TestOrchestrator_EmptySnapshot(t *testing.T) {
	Convey("Given an empty snapshot", t, func() {
		o := engine.New()

		Convey("Then the run fails fast with the sentinel", func() {
			_, err := o.Run(context.Background(), &model.Snapshot{})
			So(err, ShouldEqual, engine.ErrEmptySnapshot)
		})
	})
}

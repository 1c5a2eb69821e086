package adjust_test

import (
	"testing"

	adjust "github.com/draftedge/farmline/internal/domain/adjust"
	"github.com/draftedge/farmline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func pct(v float64) *float64 { return &v }

func TestPerformance(t *testing.T) {
	Convey("Given metric readings with resolved percentiles", t, func() {
		Convey("When the composite percentile sits near the middle", func() {
			readings := []model.MetricReading{
				{Metric: model.MetricContactRate, Weight: 0.5, Percentile: pct(47.4)},
				{Metric: model.MetricWhiffRate, Weight: 0.5, Percentile: pct(47.4)},
			}

			Convey("Then the modifier is approximately centered at zero", func() {
				mod, composite, _ := adjust.Performance(readings)
				So(composite, ShouldNotBeNil)
				So(*composite, ShouldAlmostEqual, 47.4, 1e-9)
				So(mod, ShouldAlmostEqual, -0.52, 1e-9)
				So(mod, ShouldBeBetween, -1, 1)
			})
		})

		Convey("When percentiles are extreme", func() {
			high := []model.MetricReading{{Metric: model.MetricContactRate, Weight: 1, Percentile: pct(100)}}
			low := []model.MetricReading{{Metric: model.MetricContactRate, Weight: 1, Percentile: pct(0)}}

			Convey("Then the modifier stays inside [-10,10]", func() {
				hm, _, _ := adjust.Performance(high)
				lm, _, _ := adjust.Performance(low)
				So(hm, ShouldEqual, 10)
				So(lm, ShouldEqual, -10)
			})
		})

		Convey("When some percentiles are undefined", func() {
			readings := []model.MetricReading{
				{Metric: model.MetricContactRate, Weight: 0.25, Percentile: pct(80)},
				{Metric: model.MetricWhiffRate, Weight: 0.15, Percentile: nil},
				{Metric: model.MetricHardHitRate, Weight: 0.25, Percentile: pct(60)},
			}

			Convey("Then weights re-normalize over the defined subset", func() {
				mod, composite, tags := adjust.Performance(readings)
				So(composite, ShouldNotBeNil)
				So(*composite, ShouldAlmostEqual, 70.0, 1e-9)
				So(mod, ShouldAlmostEqual, 4.0, 1e-9)
				So(tags, ShouldContain, "partial_metric_coverage")
			})
		})

		Convey("When no percentile resolved", func() {
			readings := []model.MetricReading{
				{Metric: model.MetricContactRate, Weight: 1, Percentile: nil},
			}

			Convey("Then the modifier is zero with a rationale tag", func() {
				mod, composite, tags := adjust.Performance(readings)
				So(mod, ShouldEqual, 0)
				So(composite, ShouldBeNil)
				So(tags, ShouldContain, "no_percentile_cohorts")
			})
		})
	})
}

func TestAge(t *testing.T) {
	Convey("Given a level age distribution", t, func() {
		lf := model.LeagueFactor{LgAvgAge: 23.8, LgAgeStd: 1.5}

		Convey("When the prospect is younger than peers", func() {
			adj, _ := adjust.Age(21, lf)

			Convey("Then the adjustment is positive and std-scaled", func() {
				So(adj, ShouldBeGreaterThan, 0)
				So(adj, ShouldAlmostEqual, (23.8-21)/1.5*2.0, 1e-9)
				So(adj, ShouldBeLessThanOrEqualTo, adjust.AgeBound)
			})
		})

		Convey("When the prospect is much older than peers", func() {
			adj, tags := adjust.Age(29, lf)

			Convey("Then the adjustment is negative and clamped", func() {
				So(adj, ShouldEqual, -adjust.AgeBound)
				So(tags, ShouldContain, "old_for_level")
			})
		})

		Convey("When the age spread is degenerate", func() {
			tight := model.LeagueFactor{LgAvgAge: 22, LgAgeStd: 0.01}
			adj, _ := adjust.Age(21, tight)

			Convey("Then the std floor keeps the scale sane", func() {
				So(adj, ShouldAlmostEqual, 1.0/0.5*2.0, 1e-9)
				So(adj, ShouldBeLessThanOrEqualTo, adjust.AgeBound)
			})
		})

		Convey("When no baseline exists", func() {
			adj, tags := adjust.Age(21, model.LeagueFactor{})

			Convey("Then the adjustment is neutral", func() {
				So(adj, ShouldEqual, 0)
				So(tags, ShouldContain, "no_age_baseline")
			})
		})
	})
}

func sample(m model.Metric, successes, trials int) model.WindowSample {
	return model.WindowSample{Metric: m, Successes: successes, Trials: trials}
}

func TestTrendDetector(t *testing.T) {
	Convey("Given a trend detector with the z-test gate", t, func() {
		det := adjust.NewTrendDetector()

		Convey("When two metrics improve significantly in agreement", func() {
			tw := &model.TrendWindows{
				ProspectID: "p1",
				Recent: []model.WindowSample{
					sample(model.MetricContactRate, 170, 200),
					sample(model.MetricHardHitRate, 90, 200),
				},
				Baseline: []model.WindowSample{
					sample(model.MetricContactRate, 140, 200),
					sample(model.MetricHardHitRate, 60, 200),
				},
			}

			Convey("Then a positive bounded breakout is detected", func() {
				adj, tags := det.Detect(tw, model.GroupHitter)
				So(adj, ShouldBeGreaterThan, 0)
				So(adj, ShouldBeLessThanOrEqualTo, adjust.TrendBound)
				So(tags, ShouldContain, "breakout")
			})
		})

		Convey("When the change is within noise", func() {
			tw := &model.TrendWindows{
				ProspectID: "p2",
				Recent:     []model.WindowSample{sample(model.MetricContactRate, 151, 200)},
				Baseline:   []model.WindowSample{sample(model.MetricContactRate, 149, 200)},
			}

			Convey("Then no adjustment is applied", func() {
				adj, tags := det.Detect(tw, model.GroupHitter)
				So(adj, ShouldEqual, 0)
				So(tags, ShouldContain, "no_significant_change")
			})
		})

		Convey("When a single metric shows an extreme move", func() {
			tw := &model.TrendWindows{
				ProspectID: "p3",
				Recent:     []model.WindowSample{sample(model.MetricHardHitRate, 120, 200)},
				Baseline:   []model.WindowSample{sample(model.MetricHardHitRate, 50, 200)},
			}

			Convey("Then the consistency gate caps the adjustment", func() {
				adj, tags := det.Detect(tw, model.GroupHitter)
				So(adj, ShouldEqual, 3.0)
				So(tags, ShouldContain, "consistency_capped")
			})
		})

		Convey("When windows are missing", func() {
			Convey("Then the adjustment is neutral with a tag", func() {
				adj, tags := det.Detect(nil, model.GroupHitter)
				So(adj, ShouldEqual, 0)
				So(tags, ShouldContain, "no_trend_data")
			})
		})

		Convey("When a hitter's whiff rate drops significantly", func() {
			tw := &model.TrendWindows{
				ProspectID: "p4",
				Recent:     []model.WindowSample{sample(model.MetricWhiffRate, 40, 200)},
				Baseline:   []model.WindowSample{sample(model.MetricWhiffRate, 70, 200)},
			}

			Convey("Then less whiffing reads as improvement", func() {
				adj, _ := det.Detect(tw, model.GroupHitter)
				So(adj, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When baselines are degenerate", func() {
			tw := &model.TrendWindows{
				ProspectID: "p5",
				Recent:     []model.WindowSample{sample(model.MetricContactRate, 10, 20)},
				Baseline:   []model.WindowSample{sample(model.MetricContactRate, 0, 0)},
			}

			Convey("Then the metric is skipped, never NaN", func() {
				adj, tags := det.Detect(tw, model.GroupHitter)
				So(adj, ShouldEqual, 0)
				So(tags, ShouldContain, "no_significant_change")
			})
		})
	})
}

func TestStrategies(t *testing.T) {
	Convey("Given the two significance strategies", t, func() {
		ztest := adjust.NewZTest()
		rel := adjust.NewRelativeThreshold(0.10, 10)

		Convey("When the move is large and well-sampled", func() {
			recent := sample(model.MetricContactRate, 170, 200)
			baseline := sample(model.MetricContactRate, 140, 200)

			Convey("Then both strategies agree it is significant", func() {
				So(ztest.Significant(recent, baseline), ShouldBeTrue)
				So(rel.Significant(recent, baseline), ShouldBeTrue)
			})
		})

		Convey("When the windows are too thin", func() {
			recent := sample(model.MetricContactRate, 5, 6)
			baseline := sample(model.MetricContactRate, 2, 6)

			Convey("Then neither strategy passes", func() {
				So(ztest.Significant(recent, baseline), ShouldBeFalse)
				So(rel.Significant(recent, baseline), ShouldBeFalse)
			})
		})

		Convey("Then the strategies carry distinct names", func() {
			So(ztest.Name(), ShouldEqual, "proportion_z_test")
			So(rel.Name(), ShouldEqual, "relative_threshold")
		})
	})
}

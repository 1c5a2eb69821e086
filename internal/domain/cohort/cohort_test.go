package cohort_test

import (
	"fmt"
	"math"
	"testing"

	cohort "github.com/draftedge/farmline/internal/domain/cohort"
	"github.com/draftedge/farmline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func hitterKey(metric model.Metric) cohort.Key {
	return cohort.Key{
		Season: 2025,
		Level:  model.LevelAA,
		Group:  model.GroupHitter,
		Metric: metric,
	}
}

func TestIndex_Percentile(t *testing.T) {
	Convey("Given a frozen cohort of 100 contact rates", t, func() {
		ix := cohort.NewIndex()
		key := hitterKey(model.MetricContactRate)
		for i := 0; i < 100; i++ {
			ix.Add(key, 0.60+float64(i)*0.003)
		}
		ix.Freeze()

		Convey("Then percentiles stay inside [0,100]", func() {
			low, okLow := ix.Percentile(key, 0.60)
			high, okHigh := ix.Percentile(key, 0.897)
			So(okLow, ShouldBeTrue)
			So(okHigh, ShouldBeTrue)
			So(low, ShouldBeGreaterThanOrEqualTo, 0)
			So(high, ShouldBeLessThanOrEqualTo, 100)
		})

		Convey("And the mapping is monotonic non-decreasing", func() {
			prev := -1.0
			for v := 0.55; v <= 0.95; v += 0.005 {
				pct, ok := ix.Percentile(key, v)
				So(ok, ShouldBeTrue)
				So(pct, ShouldBeGreaterThanOrEqualTo, prev)
				prev = pct
			}
		})

		Convey("And the median member sits near the 50th percentile", func() {
			pct, ok := ix.Percentile(key, 0.60+49*0.003)
			So(ok, ShouldBeTrue)
			So(pct, ShouldAlmostEqual, 49.5, 0.01)
		})
	})
}

func TestIndex_TieMidpoint(t *testing.T) {
	Convey("Given a cohort with heavy ties", t, func() {
		ix := cohort.NewIndex(cohort.WithMinCohortSize(5))
		key := hitterKey(model.MetricContactRate)
		for i := 0; i < 10; i++ {
			ix.Add(key, 0.70)
		}
		for i := 0; i < 10; i++ {
			ix.Add(key, 0.80)
		}
		ix.Freeze()

		Convey("Then two prospects with identical raw values get identical percentiles", func() {
			a, okA := ix.Percentile(key, 0.70)
			b, okB := ix.Percentile(key, 0.70)
			So(okA, ShouldBeTrue)
			So(okB, ShouldBeTrue)
			So(a, ShouldEqual, b)
		})

		Convey("And tied blocks average over their ranks without sharp jumps", func() {
			lowBlock, _ := ix.Percentile(key, 0.70)
			highBlock, _ := ix.Percentile(key, 0.80)
			So(lowBlock, ShouldAlmostEqual, 25.0, 0.01)
			So(highBlock, ShouldAlmostEqual, 75.0, 0.01)
		})
	})
}

func TestIndex_SmallCohort(t *testing.T) {
	Convey("Given a cohort of 10 with a minimum of 20", t, func() {
		ix := cohort.NewIndex(cohort.WithMinCohortSize(20))
		key := hitterKey(model.MetricWhiffRate)
		for i := 0; i < 10; i++ {
			ix.Add(key, 0.20+float64(i)*0.01)
		}
		ix.Freeze()

		Convey("Then the percentile is undefined rather than misleading", func() {
			_, ok := ix.Percentile(key, 0.25)
			So(ok, ShouldBeFalse)
			So(ix.Size(key), ShouldEqual, 10)
		})
	})
}

func TestIndex_LowerIsBetterOrientation(t *testing.T) {
	Convey("Given a hitter whiff-rate cohort", t, func() {
		ix := cohort.NewIndex(cohort.WithMinCohortSize(5))
		key := hitterKey(model.MetricWhiffRate)
		for i := 0; i < 50; i++ {
			ix.Add(key, 0.15+float64(i)*0.004)
		}
		ix.Freeze()

		Convey("Then a low whiff rate earns a high percentile", func() {
			best, okBest := ix.Percentile(key, 0.15)
			worst, okWorst := ix.Percentile(key, 0.35)
			So(okBest, ShouldBeTrue)
			So(okWorst, ShouldBeTrue)
			So(best, ShouldBeGreaterThan, worst)
			So(best, ShouldBeGreaterThan, 90)
		})
	})
}

func TestIndex_NonFiniteGuards(t *testing.T) {
	Convey("Given an index", t, func() {
		ix := cohort.NewIndex(cohort.WithMinCohortSize(5))
		key := hitterKey(model.MetricContactRate)

		Convey("When non-finite peer values arrive", func() {
			ix.Add(key, math.NaN())
			for i := 0; i < 20; i++ {
				ix.Add(key, 0.70+float64(i)*0.001)
			}
			ix.Freeze()

			Convey("Then they are dropped from the cohort", func() {
				So(ix.Size(key), ShouldEqual, 20)
			})

			Convey("And a non-finite probe is undefined, never NaN", func() {
				_, ok := ix.Percentile(key, math.NaN())
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestIndex_DistinctCohortsPerKey(t *testing.T) {
	Convey("Given values across two levels", t, func() {
		ix := cohort.NewIndex(cohort.WithMinCohortSize(5))
		aa := hitterKey(model.MetricContactRate)
		aaa := aa
		aaa.Level = model.LevelAAA
		for i := 0; i < 30; i++ {
			ix.Add(aa, 0.60+float64(i)*0.002)
			ix.Add(aaa, 0.70+float64(i)*0.002)
		}
		ix.Freeze()

		Convey("Then the same raw value percentiles differently by level", func() {
			inAA, _ := ix.Percentile(aa, 0.70)
			inAAA, _ := ix.Percentile(aaa, 0.70)
			So(inAA, ShouldBeGreaterThan, inAAA)
			So(fmt.Sprintf("%.0f", inAAA), ShouldEqual, "2")
		})
	})
}

package source_test

import (
	"testing"

	"github.com/draftedge/farmline/internal/domain/model"
	source "github.com/draftedge/farmline/internal/domain/source"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolver_Precedence(t *testing.T) {
	Convey("Given a resolver with default thresholds", t, func() {
		r := source.NewResolver()

		Convey("When a prospect meets the pitch-event threshold", func() {
			pitch := &model.PitchMetricSet{ProspectID: "p1", SampleSize: 250}
			gameLog := &model.GameLogAggregate{ProspectID: "p1", DaysCovered: 120}

			Convey("Then pitch_data wins even with rich game logs", func() {
				res := r.Resolve(pitch, gameLog)
				So(res.Source, ShouldEqual, model.SourcePitchData)
				So(res.PitchSet, ShouldNotBeNil)
				So(res.GameLog, ShouldBeNil)
			})
		})

		Convey("When pitch data is below threshold but game logs cover enough days", func() {
			pitch := &model.PitchMetricSet{ProspectID: "p2", SampleSize: 40}
			gameLog := &model.GameLogAggregate{ProspectID: "p2", DaysCovered: 45}

			Convey("Then game_logs governs", func() {
				res := r.Resolve(pitch, gameLog)
				So(res.Source, ShouldEqual, model.SourceGameLogs)
				So(res.GameLog, ShouldNotBeNil)
			})
		})

		Convey("When both records exist but neither meets its threshold", func() {
			pitch := &model.PitchMetricSet{ProspectID: "p3", SampleSize: 12}
			gameLog := &model.GameLogAggregate{ProspectID: "p3", DaysCovered: 9}

			Convey("Then the prospect degrades to insufficient_data", func() {
				res := r.Resolve(pitch, gameLog)
				So(res.Source, ShouldEqual, model.SourceInsufficient)
			})
		})

		Convey("When no record exists at all", func() {
			Convey("Then the prospect resolves to no_data", func() {
				res := r.Resolve(nil, nil)
				So(res.Source, ShouldEqual, model.SourceNoData)
			})
		})

		Convey("When the pitch sample size is zero", func() {
			pitch := &model.PitchMetricSet{ProspectID: "p4", SampleSize: 0}

			Convey("Then pitch_data is never selected", func() {
				res := r.Resolve(pitch, nil)
				So(res.Source, ShouldNotEqual, model.SourcePitchData)
				So(res.Source, ShouldEqual, model.SourceInsufficient)
			})
		})
	})
}

func TestResolver_Options(t *testing.T) {
	Convey("Given a resolver with custom thresholds", t, func() {
		r := source.NewResolver(
			source.WithPitchThreshold(50),
			source.WithGameLogThreshold(10),
		)

		Convey("When a pitch set meets the lowered threshold", func() {
			res := r.Resolve(&model.PitchMetricSet{SampleSize: 60}, nil)

			Convey("Then pitch_data governs", func() {
				So(res.Source, ShouldEqual, model.SourcePitchData)
			})
		})

		Convey("When only a short game log exists", func() {
			res := r.Resolve(nil, &model.GameLogAggregate{DaysCovered: 12})

			Convey("Then the lowered game-log threshold applies", func() {
				So(res.Source, ShouldEqual, model.SourceGameLogs)
			})
		})
	})
}

package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	dedupe "github.com/draftedge/farmline/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When the same game line arrives twice", func() {
			key := dedupe.Key{GameID: "g-100", PlayerID: "pl-7"}

			Convey("Then only the first is recorded", func() {
				So(d.SeenAndRecord(ctx, key), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, key), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same player appears in different games", func() {
			Convey("Then each line is distinct", func() {
				So(d.SeenAndRecord(ctx, dedupe.Key{GameID: "g-1", PlayerID: "pl-7"}), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, dedupe.Key{GameID: "g-2", PlayerID: "pl-7"}), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When different players share a game", func() {
			Convey("Then each line is distinct", func() {
				So(d.SeenAndRecord(ctx, dedupe.Key{GameID: "g-1", PlayerID: "pl-1"}), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, dedupe.Key{GameID: "g-1", PlayerID: "pl-2"}), ShouldBeFalse)
			})
		})
	})
}

func TestDeduper_SafetyValve(t *testing.T) {
	Convey("Given a deduper with a small ceiling", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When more lines arrive than the ceiling allows", func() {
			for i := 0; i < 3; i++ {
				So(d.SeenAndRecord(ctx, dedupe.Key{GameID: fmt.Sprintf("g-%d", i), PlayerID: "pl-1"}), ShouldBeFalse)
			}

			Convey("Then overflow reads as seen and the set stops growing", func() {
				So(d.SeenAndRecord(ctx, dedupe.Key{GameID: "g-99", PlayerID: "pl-1"}), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})
}

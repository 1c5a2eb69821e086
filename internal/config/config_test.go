package config_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/draftedge/farmline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Season, convey.ShouldEqual, time.Now().Year())
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.PitchSampleThreshold, convey.ShouldEqual, 100)
			convey.So(cfg.GameLogDayThreshold, convey.ShouldEqual, 30)
			convey.So(cfg.MinGames, convey.ShouldEqual, 50)
			convey.So(cfg.MinCohortSize, convey.ShouldEqual, 20)
			convey.So(cfg.TrendStrategy, convey.ShouldEqual, "proportion_z_test")
			convey.So(cfg.MaxListLimit, convey.ShouldEqual, 500)
			convey.So(cfg.RunInterval, convey.ShouldEqual, time.Duration(0))
		})
	})
}

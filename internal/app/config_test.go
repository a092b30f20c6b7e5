package service_test

import (
	"context"
	"testing"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/config"
	"github.com/okian/pitchside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOptionsFromConfig(t *testing.T) {
	Convey("Given a loaded config", t, func() {
		cfg := config.New()
		cfg.Timezone = "Asia/Tokyo"
		cfg.StoreDriver, cfg.SQLitePath = "sqlite", ":memory:"
		cfg.LegendMaxScale = 365
		cfg.WorkerCount = 3

		Convey("The options build a service that reflects it", func() {
			opts, err := service.OptionsFromConfig(cfg, logger.Nop())
			So(err, ShouldBeNil)

			svc := service.New(opts...)
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			stats := svc.GetStats()
			So(stats["store"], ShouldEqual, "sqlite")
			So(stats["timezone"], ShouldEqual, "Asia/Tokyo")
			So(stats["legendMaxScale"], ShouldEqual, 365.0)
			So(stats["workerCount"], ShouldEqual, 3)
		})

		Convey("A timezone that does not load is rejected", func() {
			cfg.Timezone = "Nowhere/Land"
			_, err := service.OptionsFromConfig(cfg, logger.Nop())
			So(err, ShouldNotBeNil)
		})
	})
}

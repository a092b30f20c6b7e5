package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/pitchside/internal/scheduler"
	"github.com/smartystreets/goconvey/convey"
)

type countingStats struct {
	calls atomic.Int64
}

func (c *countingStats) GetStats() map[string]interface{} {
	c.calls.Add(1)
	return map[string]interface{}{"started": true}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestScheduler(t *testing.T) {
	convey.Convey("Given a scheduler with a short interval", t, func() {
		stats := &countingStats{}
		s := scheduler.New(stats, scheduler.WithInterval(50*time.Millisecond))

		convey.Convey("When it is started", func() {
			convey.So(s.Start(), convey.ShouldBeNil)
			defer s.Stop()

			convey.Convey("Then the service gauges are refreshed repeatedly", func() {
				convey.So(s.Running(), convey.ShouldBeTrue)
				convey.So(waitFor(func() bool { return stats.calls.Load() >= 2 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When it is stopped", func() {
			convey.So(s.Start(), convey.ShouldBeNil)
			s.Stop()

			convey.Convey("Then no further refreshes happen", func() {
				convey.So(s.Running(), convey.ShouldBeFalse)
				time.Sleep(20 * time.Millisecond)
				seen := stats.calls.Load()
				time.Sleep(150 * time.Millisecond)
				convey.So(stats.calls.Load(), convey.ShouldEqual, seen)
			})
		})
	})

	convey.Convey("Given a scheduler without a stats source", t, func() {
		s := scheduler.New(nil, scheduler.WithInterval(0))

		convey.Convey("Then only runtime gauges are scheduled", func() {
			convey.So(s.Start(), convey.ShouldBeNil)
			s.Stop()
		})
	})

	convey.Convey("Runtime gauges can be refreshed directly", t, func() {
		convey.So(scheduler.RefreshRuntimeGauges, convey.ShouldNotPanic)
	})
}

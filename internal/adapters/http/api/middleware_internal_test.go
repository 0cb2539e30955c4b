package api

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRateLimiterSweep(t *testing.T) {
	Convey("Given a limiter on a manual clock", t, func() {
		now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
		rl := NewRateLimiter(60)
		rl.now = func() time.Time { return now }
		rl.lastSweep = now

		for i := 0; i < 2000; i++ {
			So(rl.allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256)), ShouldBeTrue)
		}

		Convey("Idle clients survive until a full TTL has passed", func() {
			now = now.Add(limiterIdleTTL / 2)
			rl.allow("10.9.9.9")
			So(rl.Clients(), ShouldEqual, 2001)
		})

		Convey("One request after the TTL drops every idle client", func() {
			now = now.Add(limiterIdleTTL + time.Second)
			So(rl.allow("10.9.9.9"), ShouldBeTrue)
			So(rl.Clients(), ShouldEqual, 1)
			So(rl.lastSweep, ShouldEqual, now)

			Convey("and the next sweep waits for another TTL", func() {
				swept := rl.lastSweep
				now = now.Add(limiterIdleTTL / 2)
				rl.allow("10.9.9.8")
				So(rl.lastSweep, ShouldEqual, swept)
				So(rl.Clients(), ShouldEqual, 2)
			})
		})
	})
}

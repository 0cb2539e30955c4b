package streak

import (
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAdvance(t *testing.T) {
	Convey("Given an empty streak", t, func() {
		s := Streak{}

		Convey("the first wear starts a run of one", func() {
			s = Advance(s, "2025-03-10")
			So(s, ShouldResemble, Streak{Count: 1, LastDate: "2025-03-10"})

			Convey("a second wear the same day changes nothing", func() {
				So(Advance(s, "2025-03-10"), ShouldResemble, s)
			})

			Convey("a wear the next day extends it", func() {
				So(Advance(s, "2025-03-11"), ShouldResemble, Streak{Count: 2, LastDate: "2025-03-11"})
			})

			Convey("a gap restarts it", func() {
				So(Advance(s, "2025-03-13"), ShouldResemble, Streak{Count: 1, LastDate: "2025-03-13"})
			})

			Convey("an earlier day is ignored", func() {
				So(Advance(s, "2025-03-01"), ShouldResemble, s)
			})
		})

		Convey("runs cross month and year boundaries", func() {
			s = Advance(Advance(s, "2024-12-31"), "2025-01-01")
			So(s.Count, ShouldEqual, 2)
		})
	})
}

func TestCurrent(t *testing.T) {
	Convey("Current", t, func() {
		s := Streak{Count: 4, LastDate: "2025-03-10"}
		So(Current(s, "2025-03-10"), ShouldEqual, 4)
		So(Current(s, "2025-03-11"), ShouldEqual, 4)
		So(Current(s, "2025-03-12"), ShouldEqual, 0)
		So(Current(Streak{}, "2025-03-12"), ShouldEqual, 0)
	})
}

func TestFromHistory(t *testing.T) {
	Convey("FromHistory", t, func() {
		days := []string{"2025-03-08", "2025-03-09", "2025-03-09", "2025-03-10", "2025-03-05"}

		Convey("counts back from today", func() {
			So(FromHistory(days, "2025-03-10"), ShouldEqual, 3)
		})

		Convey("keeps yesterday's run alive", func() {
			So(FromHistory(days, "2025-03-11"), ShouldEqual, 3)
		})

		Convey("is zero after a missed day", func() {
			So(FromHistory(days, "2025-03-12"), ShouldEqual, 0)
			So(FromHistory(nil, "2025-03-12"), ShouldEqual, 0)
		})
	})
}

func TestIncrementalAndScanAgree(t *testing.T) {
	Convey("For random wear sequences the two computations agree", t, func() {
		r := rand.New(rand.NewPCG(2025, 3))
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		for trial := 0; trial < 300; trial++ {
			var days []string
			offset := 0
			for n := r.IntN(15); n > 0; n-- {
				offset += r.IntN(3) // 0 = same day, 1 = next day, 2 = gap
				days = append(days, start.AddDate(0, 0, offset).Format(DateLayout))
			}
			sort.Strings(days)

			var s Streak
			for _, d := range days {
				s = Advance(s, d)
			}
			for ahead := 0; ahead < 3; ahead++ {
				today := start.AddDate(0, 0, offset+ahead).Format(DateLayout)
				So(Current(s, today), ShouldEqual, FromHistory(days, today))
			}
		}
	})
}

func TestRebuild(t *testing.T) {
	Convey("Rebuild", t, func() {
		Convey("counts the run ending at the latest day", func() {
			days := []string{"2025-03-10", "2025-03-05", "2025-03-08", "2025-03-09", "2025-03-09"}
			So(Rebuild(days), ShouldResemble, Streak{Count: 3, LastDate: "2025-03-10"})
		})

		Convey("is empty without wears", func() {
			So(Rebuild(nil), ShouldResemble, Streak{})
		})

		Convey("fills a backdated gap", func() {
			s := Advance(Advance(Streak{}, "2025-03-08"), "2025-03-10")
			So(s.Count, ShouldEqual, 1)
			So(Backdated(s, "2025-03-09"), ShouldBeTrue)
			So(Backdated(s, "2025-03-10"), ShouldBeFalse)
			So(Backdated(Streak{}, "2025-03-09"), ShouldBeFalse)
			s = Rebuild([]string{"2025-03-08", "2025-03-10", "2025-03-09"})
			So(s, ShouldResemble, Streak{Count: 3, LastDate: "2025-03-10"})
		})
	})
}

func TestOutOfOrderWearsAgree(t *testing.T) {
	Convey("For shuffled wear sequences applied one by one the two computations agree", t, func() {
		r := rand.New(rand.NewPCG(2025, 10))
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		for trial := 0; trial < 300; trial++ {
			var days []string
			offset := 0
			for n := r.IntN(15); n > 0; n-- {
				offset += r.IntN(3)
				days = append(days, start.AddDate(0, 0, offset).Format(DateLayout))
			}
			r.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })

			var s Streak
			for i, d := range days {
				if Backdated(s, d) {
					s = Rebuild(days[:i+1])
				} else {
					s = Advance(s, d)
				}
			}
			for ahead := 0; ahead < 3; ahead++ {
				today := start.AddDate(0, 0, offset+ahead).Format(DateLayout)
				So(Current(s, today), ShouldEqual, FromHistory(days, today))
			}
		}
	})
}

func TestDay(t *testing.T) {
	Convey("Day formats in the given zone", t, func() {
		ts := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
		tokyo := time.FixedZone("JST", 9*3600)
		So(Day(ts, nil), ShouldEqual, "2025-03-10")
		So(Day(ts, tokyo), ShouldEqual, "2025-03-11")
	})
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/streak"
)

func item(slot model.Slot, name, hex string, created time.Time) model.ClothingItem {
	return model.ClothingItem{Slot: slot, Name: name, PrimaryHex: hex, Palette: []string{hex}, CreatedAt: created}
}

// runStoreContract exercises the behaviour every Store implementation shares.
// newStore must return an empty store for each call.
func runStoreContract(t *testing.T, newStore func() Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	Convey("Given an empty wardrobe store", t, func() {
		s := newStore()
		Reset(func() { _ = s.Close() })

		top, err := s.AddItem(ctx, item(model.SlotTop, "Black Tee", "#1a1a1a", base))
		So(err, ShouldBeNil)
		navy, err := s.AddItem(ctx, item(model.SlotTop, "Navy Hoodie", "#1b2a4a", base.Add(time.Hour)))
		So(err, ShouldBeNil)
		bottom, err := s.AddItem(ctx, item(model.SlotBottom, "Grey Shorts", "#6b6b6b", base.Add(-time.Hour)))
		So(err, ShouldBeNil)

		Convey("AddItem assigns an id and rejects invalid items", func() {
			So(top.ID, ShouldNotBeEmpty)
			_, err := s.AddItem(ctx, item(model.SlotTop, "Bad", "red", base))
			So(errors.Is(err, model.ErrInvalidItem), ShouldBeTrue)

			n, err := s.CountItems(ctx, model.SlotTop)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			n, err = s.CountItems(ctx, "")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})

		Convey("ListItems keeps insertion order and honours filters and sorts", func() {
			tops, err := s.ListItems(ctx, model.ItemFilter{Slot: model.SlotTop})
			So(err, ShouldBeNil)
			So(len(tops), ShouldEqual, 2)
			So(tops[0].ID, ShouldEqual, top.ID)
			So(tops[1].ID, ShouldEqual, navy.ID)

			newest, err := s.ListItems(ctx, model.ItemFilter{Sort: model.SortCreated})
			So(err, ShouldBeNil)
			So(newest[0].ID, ShouldEqual, navy.ID)
			So(newest[2].ID, ShouldEqual, bottom.ID)
		})

		Convey("GetItem, UpdateItem and RemoveItem report unknown ids", func() {
			_, err := s.GetItem(ctx, "missing")
			So(errors.Is(err, ErrItemNotFound), ShouldBeTrue)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)

			name := "Charcoal Tee"
			updated, err := s.UpdateItem(ctx, top.ID, model.ItemPatch{Name: &name})
			So(err, ShouldBeNil)
			So(updated.Name, ShouldEqual, "Charcoal Tee")
			So(updated.PrimaryHex, ShouldEqual, "#1a1a1a")

			bad := "nope"
			_, err = s.UpdateItem(ctx, top.ID, model.ItemPatch{PrimaryHex: &bad})
			So(errors.Is(err, model.ErrInvalidItem), ShouldBeTrue)

			So(s.RemoveItem(ctx, navy.ID), ShouldBeNil)
			So(errors.Is(s.RemoveItem(ctx, navy.ID), ErrItemNotFound), ShouldBeTrue)
			tops, _ := s.ListItems(ctx, model.ItemFilter{Slot: model.SlotTop})
			So(len(tops), ShouldEqual, 1)
		})

		Convey("ApplyWear updates items, history and streak together", func() {
			entry, err := s.ApplyWear(ctx, model.WearEvent{
				TopID: top.ID, BottomID: bottom.ID, HarmonyScore: 90, DripScore: 80, OccurredAt: base,
			})
			So(err, ShouldBeNil)
			So(entry.Worn, ShouldBeTrue)
			So(entry.Rating, ShouldBeNil)

			got, _ := s.GetItem(ctx, top.ID)
			So(got.WearCount, ShouldEqual, 1)
			So(got.LastWorn, ShouldNotBeNil)
			So(got.LastWorn.Equal(base), ShouldBeTrue)
			got, _ = s.GetItem(ctx, bottom.ID)
			So(got.WearCount, ShouldEqual, 1)

			st, err := s.Streak(ctx)
			So(err, ShouldBeNil)
			So(st, ShouldResemble, streak.Streak{Count: 1, LastDate: "2025-03-10"})

			Convey("a wear on the next day extends the streak and a same-day wear does not", func() {
				_, err := s.ApplyWear(ctx, model.WearEvent{TopID: navy.ID, BottomID: bottom.ID, OccurredAt: base.Add(2 * time.Hour)})
				So(err, ShouldBeNil)
				_, err = s.ApplyWear(ctx, model.WearEvent{TopID: top.ID, BottomID: bottom.ID, OccurredAt: base.AddDate(0, 0, 1)})
				So(err, ShouldBeNil)

				st, _ := s.Streak(ctx)
				So(st.Count, ShouldEqual, 2)
				So(st.LastDate, ShouldEqual, "2025-03-11")

				hist, err := s.History(ctx, 10)
				So(err, ShouldBeNil)
				So(len(hist), ShouldEqual, 3)
				So(hist[0].TopID, ShouldEqual, top.ID)
				So(hist[1].TopID, ShouldEqual, navy.ID)

				limited, _ := s.History(ctx, 1)
				So(len(limited), ShouldEqual, 1)
			})

			Convey("a backdated wear fills the gap and keeps the later last-worn time", func() {
				later := base.AddDate(0, 0, 2)
				_, err := s.ApplyWear(ctx, model.WearEvent{TopID: top.ID, BottomID: bottom.ID, OccurredAt: later})
				So(err, ShouldBeNil)
				st, _ := s.Streak(ctx)
				So(st, ShouldResemble, streak.Streak{Count: 1, LastDate: "2025-03-12"})

				_, err = s.ApplyWear(ctx, model.WearEvent{TopID: top.ID, BottomID: bottom.ID, OccurredAt: base.AddDate(0, 0, 1)})
				So(err, ShouldBeNil)
				st, _ = s.Streak(ctx)
				So(st, ShouldResemble, streak.Streak{Count: 3, LastDate: "2025-03-12"})

				hist, _ := s.History(ctx, 10)
				var days []string
				for _, h := range hist {
					days = append(days, streak.Day(h.WornAt, time.UTC))
				}
				So(streak.Current(st, "2025-03-12"), ShouldEqual, streak.FromHistory(days, "2025-03-12"))

				got, _ := s.GetItem(ctx, top.ID)
				So(got.WearCount, ShouldEqual, 3)
				So(got.LastWorn.Equal(later), ShouldBeTrue)

				worn, err := s.MarkItemWorn(ctx, top.ID, base)
				So(err, ShouldBeNil)
				So(worn.LastWorn.Equal(later), ShouldBeTrue)
			})

			Convey("RateEntry validates the range and stores the rating", func() {
				_, err := s.RateEntry(ctx, entry.ID, 6)
				So(errors.Is(err, model.ErrInvalidRating), ShouldBeTrue)

				rated, err := s.RateEntry(ctx, entry.ID, 4)
				So(err, ShouldBeNil)
				So(*rated.Rating, ShouldEqual, 4)

				_, err = s.RateEntry(ctx, "missing", 4)
				So(errors.Is(err, ErrEntryNotFound), ShouldBeTrue)
			})
		})

		Convey("ApplyWear with an unknown or mis-slotted item changes nothing", func() {
			_, err := s.ApplyWear(ctx, model.WearEvent{TopID: top.ID, BottomID: "missing", OccurredAt: base})
			So(errors.Is(err, ErrItemNotFound), ShouldBeTrue)
			_, err = s.ApplyWear(ctx, model.WearEvent{TopID: bottom.ID, BottomID: top.ID, OccurredAt: base})
			So(errors.Is(err, ErrItemNotFound), ShouldBeTrue)

			got, _ := s.GetItem(ctx, top.ID)
			So(got.WearCount, ShouldEqual, 0)
			hist, _ := s.History(ctx, 5)
			So(hist, ShouldBeEmpty)
			st, _ := s.Streak(ctx)
			So(st.Count, ShouldEqual, 0)
		})

		Convey("MarkItemWorn touches a single item only", func() {
			got, err := s.MarkItemWorn(ctx, navy.ID, base)
			So(err, ShouldBeNil)
			So(got.WearCount, ShouldEqual, 1)
			hist, _ := s.History(ctx, 5)
			So(hist, ShouldBeEmpty)

			_, err = s.MarkItemWorn(ctx, "missing", base)
			So(errors.Is(err, ErrItemNotFound), ShouldBeTrue)
		})

		Convey("History rejects a non-positive limit", func() {
			_, err := s.History(ctx, 0)
			So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Open picks the store by driver name", t, func() {
		s, err := Open(context.Background(), "", "")
		So(err, ShouldBeNil)
		So(s, ShouldHaveSameTypeAs, &MemoryStore{})

		_, err = Open(context.Background(), "sqlite", "")
		So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)

		_, err = Open(context.Background(), DriverPostgres, "")
		So(err, ShouldNotBeNil)
	})
}

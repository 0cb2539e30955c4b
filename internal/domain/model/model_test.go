package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/fitcheck/internal/domain/colour"
	model "github.com/okian/fitcheck/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func validItem() model.ClothingItem {
	return model.ClothingItem{
		ID:         "item-1",
		Slot:       model.SlotTop,
		Name:       "Essential Black Hoodie",
		Brand:      "Nike",
		PrimaryHex: "#1a1a1a",
		Palette:    []string{"#1a1a1a", "#333333"},
		Tags:       []string{"everyday", "Dark"},
		CreatedAt:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestParseSlot(t *testing.T) {
	convey.Convey("Given slot names", t, func() {
		convey.Convey("When parsing current and legacy names", func() {
			for in, want := range map[string]model.Slot{
				"top": model.SlotTop, "Hoodie": model.SlotTop,
				"bottom": model.SlotBottom, " shorts ": model.SlotBottom,
			} {
				got, err := model.ParseSlot(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("When parsing an unknown name", func() {
			_, err := model.ParseSlot("hat")
			convey.So(errors.Is(err, model.ErrInvalidSlot), convey.ShouldBeTrue)
		})
	})
}

func TestClothingItemValidate(t *testing.T) {
	convey.Convey("Given a clothing item", t, func() {
		item := validItem()

		convey.Convey("When it is well formed", func() {
			convey.So(item.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the primary colour is malformed", func() {
			item.PrimaryHex = "#12345"
			err := item.Validate()
			convey.So(errors.Is(err, model.ErrInvalidItem), convey.ShouldBeTrue)
			convey.So(errors.Is(err, colour.ErrInvalidColorFormat), convey.ShouldBeTrue)
		})

		convey.Convey("When a palette colour is malformed", func() {
			item.Palette = append(item.Palette, "blue")
			convey.So(errors.Is(item.Validate(), colour.ErrInvalidColorFormat), convey.ShouldBeTrue)
		})

		convey.Convey("When the name is blank", func() {
			item.Name = "  "
			convey.So(errors.Is(item.Validate(), model.ErrInvalidItem), convey.ShouldBeTrue)
		})

		convey.Convey("When the wear count is negative", func() {
			item.WearCount = -1
			convey.So(item.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the slot is unknown", func() {
			item.Slot = "hat"
			convey.So(errors.Is(item.Validate(), model.ErrInvalidSlot), convey.ShouldBeTrue)
		})
	})
}

func TestCloneAndPatch(t *testing.T) {
	convey.Convey("Given an item that has been worn", t, func() {
		item := validItem()
		worn := time.Now()
		item.LastWorn = &worn

		convey.Convey("Clone does not share slices or the timestamp", func() {
			c := item.Clone()
			c.Tags[0] = "changed"
			*c.LastWorn = worn.Add(time.Hour)
			convey.So(item.Tags[0], convey.ShouldEqual, "everyday")
			convey.So(item.LastWorn.Equal(worn), convey.ShouldBeTrue)
		})

		convey.Convey("Apply only touches set fields", func() {
			name := "Renamed"
			tags := []string{"gym"}
			out := model.ItemPatch{Name: &name, Tags: &tags}.Apply(item)
			convey.So(out.Name, convey.ShouldEqual, "Renamed")
			convey.So(out.Tags, convey.ShouldResemble, []string{"gym"})
			convey.So(out.Brand, convey.ShouldEqual, "Nike")
			convey.So(item.Name, convey.ShouldEqual, "Essential Black Hoodie")
		})
	})
}

func TestItemFilter(t *testing.T) {
	convey.Convey("ItemFilter matches slot and tag case-insensitively", t, func() {
		item := validItem()
		convey.So(model.ItemFilter{}.Matches(item), convey.ShouldBeTrue)
		convey.So(model.ItemFilter{Slot: model.SlotTop, Tag: "dark"}.Matches(item), convey.ShouldBeTrue)
		convey.So(model.ItemFilter{Slot: model.SlotBottom}.Matches(item), convey.ShouldBeFalse)
		convey.So(model.ItemFilter{Tag: "gym"}.Matches(item), convey.ShouldBeFalse)
	})
}

func TestWearEventAndRating(t *testing.T) {
	convey.Convey("WearEvent validation", t, func() {
		ev := model.WearEvent{TopID: "a", BottomID: "b", HarmonyScore: 80, DripScore: 77}
		convey.So(ev.Validate(), convey.ShouldBeNil)

		ev.BottomID = ""
		convey.So(errors.Is(ev.Validate(), model.ErrInvalidWear), convey.ShouldBeTrue)

		ev.BottomID = "b"
		ev.DripScore = 101
		convey.So(ev.Validate(), convey.ShouldNotBeNil)
	})

	convey.Convey("Ratings are 1 to 5", t, func() {
		convey.So(model.ValidateRating(1), convey.ShouldBeNil)
		convey.So(model.ValidateRating(5), convey.ShouldBeNil)
		convey.So(errors.Is(model.ValidateRating(0), model.ErrInvalidRating), convey.ShouldBeTrue)
		convey.So(model.ValidateRating(6), convey.ShouldNotBeNil)
	})
}

func TestSortItems(t *testing.T) {
	convey.Convey("Given items created and worn at different times", t, func() {
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		worn := base.Add(48 * time.Hour)
		items := []model.ClothingItem{
			{ID: "old", CreatedAt: base},
			{ID: "new", CreatedAt: base.Add(time.Hour)},
			{ID: "worn", CreatedAt: base.Add(30 * time.Minute), LastWorn: &worn},
		}

		convey.Convey("createdAt lists the newest first", func() {
			model.SortItems(items, model.SortCreated)
			convey.So(items[0].ID, convey.ShouldEqual, "new")
			convey.So(items[2].ID, convey.ShouldEqual, "old")
		})

		convey.Convey("lastWorn puts never-worn items last", func() {
			model.SortItems(items, model.SortLastWorn)
			convey.So(items[0].ID, convey.ShouldEqual, "worn")
			convey.So(items[1].ID, convey.ShouldEqual, "old")
		})

		convey.Convey("the zero order keeps insertion order", func() {
			model.SortItems(items, model.SortInserted)
			convey.So(items[0].ID, convey.ShouldEqual, "old")
		})

		convey.Convey("unknown sort names are rejected", func() {
			_, err := model.ParseSortOrder("price")
			convey.So(err, convey.ShouldNotBeNil)
			o, err := model.ParseSortOrder("lastWorn")
			convey.So(err, convey.ShouldBeNil)
			convey.So(o, convey.ShouldEqual, model.SortLastWorn)
		})
	})
}

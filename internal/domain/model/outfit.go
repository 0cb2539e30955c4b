package model

import (
	"fmt"
	"time"

	"github.com/okian/fitcheck/internal/domain/harmony"
)

// Outfit pairs one top with one bottom.
type Outfit struct {
	Top          ClothingItem `json:"top"`
	Bottom       ClothingItem `json:"bottom"`
	HarmonyScore int          `json:"harmonyScore"`
	DripScore    int          `json:"dripScore"`
	HarmonyType  harmony.Type `json:"harmonyType"`
	Explanation  string       `json:"explanation"`
	Date         string       `json:"date"`
	DayOfWeek    string       `json:"dayOfWeek"`
}

// HistoryEntry is a worn outfit in the append-only log.
type HistoryEntry struct {
	ID           string    `json:"id"`
	TopID        string    `json:"topId"`
	BottomID     string    `json:"bottomId"`
	HarmonyScore int       `json:"harmonyScore"`
	DripScore    int       `json:"dripScore"`
	Rating       *int      `json:"rating"`
	Worn         bool      `json:"worn"`
	WornAt       time.Time `json:"date"`
}

// ValidateRating checks that r is 1..5.
func ValidateRating(r int) error {
	if r < 1 || r > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, r)
	}
	return nil
}

// WearEvent records that an outfit was worn.
type WearEvent struct {
	EventID      string    `json:"eventId"`
	TopID        string    `json:"topId"`
	BottomID     string    `json:"bottomId"`
	HarmonyScore int       `json:"harmonyScore"`
	DripScore    int       `json:"dripScore"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Validate checks the required fields and score ranges.
func (w WearEvent) Validate() error {
	switch {
	case w.TopID == "":
		return fmt.Errorf("%w: top id is required", ErrInvalidWear)
	case w.BottomID == "":
		return fmt.Errorf("%w: bottom id is required", ErrInvalidWear)
	case w.HarmonyScore < 0 || w.HarmonyScore > 100:
		return fmt.Errorf("%w: harmony score out of range", ErrInvalidWear)
	case w.DripScore < 0 || w.DripScore > 100:
		return fmt.Errorf("%w: drip score out of range", ErrInvalidWear)
	}
	return nil
}

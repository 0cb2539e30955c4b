package smoke

import (
	"errors"
	"fmt"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/planner"
)

// ErrVerification marks a failed plan check.
var ErrVerification = errors.New("verification failed")

// verifyOutfit checks slots and score ranges of one suggestion.
func verifyOutfit(o *model.Outfit) error {
	if o == nil {
		return fmt.Errorf("%w: missing outfit", ErrVerification)
	}
	if o.Top.Slot != model.SlotTop || o.Bottom.Slot != model.SlotBottom {
		return fmt.Errorf("%w: outfit slots %s/%s", ErrVerification, o.Top.Slot, o.Bottom.Slot)
	}
	if o.HarmonyScore < 0 || o.HarmonyScore > 100 || o.DripScore < 0 || o.DripScore > 100 {
		return fmt.Errorf("%w: scores out of range (%d, %d)", ErrVerification, o.HarmonyScore, o.DripScore)
	}
	if o.Explanation == "" {
		return fmt.Errorf("%w: empty explanation", ErrVerification)
	}
	return nil
}

// verifyWeek checks a Monday to Friday plan. Tops must not repeat while
// enough tops exist, and no bottom may exceed reuseLimit while enough
// bottoms exist. A reuseLimit of 0 skips the bottom check.
func verifyWeek(plan planner.WeeklyPlan, tops, bottoms, reuseLimit int) error {
	if len(plan.Week) != len(planner.Weekdays) {
		return fmt.Errorf("%w: %d days planned", ErrVerification, len(plan.Week))
	}

	topSeen := make(map[string]bool, len(plan.Week))
	bottomUses := make(map[string]int, len(plan.Week))
	for i, day := range plan.Week {
		if want := planner.Weekdays[i].String(); day.Day != want {
			return fmt.Errorf("%w: day %d is %s, want %s", ErrVerification, i, day.Day, want)
		}
		if err := verifyOutfit(day.Outfit); err != nil {
			return fmt.Errorf("%s: %w", day.Day, err)
		}
		if topSeen[day.Outfit.Top.ID] && tops >= len(plan.Week) {
			return fmt.Errorf("%w: top %s repeated on %s", ErrVerification, day.Outfit.Top.ID, day.Day)
		}
		topSeen[day.Outfit.Top.ID] = true
		bottomUses[day.Outfit.Bottom.ID]++
	}

	if reuseLimit > 0 && bottoms*reuseLimit >= len(plan.Week) {
		for id, n := range bottomUses {
			if n > reuseLimit {
				return fmt.Errorf("%w: bottom %s used %d times", ErrVerification, id, n)
			}
		}
	}
	return nil
}

// Package streak counts consecutive calendar days with at least one worn
// outfit. Days are civil dates (YYYY-MM-DD) in the wardrobe's time zone.
package streak

import (
	"time"
)

// DateLayout is the civil date format used for streak days.
const DateLayout = "2006-01-02"

// Streak is the incrementally maintained counter.
type Streak struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate,omitempty"`
}

// Day formats t as a civil date in loc.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

func previous(day string) string {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// Advance applies a wear on day. A second wear on the same day changes
// nothing, a wear on the day after LastDate extends the run, and any other
// gap restarts it at 1. Days earlier than LastDate are ignored; callers
// check Backdated first and Rebuild instead.
func Advance(s Streak, day string) Streak {
	switch {
	case s.LastDate == day:
		return s
	case s.LastDate != "" && day < s.LastDate:
		return s
	case s.LastDate != "" && s.LastDate == previous(day):
		return Streak{Count: s.Count + 1, LastDate: day}
	default:
		return Streak{Count: 1, LastDate: day}
	}
}

// Backdated reports whether a wear on day lands before the last counted day.
// Advance cannot place such a day, so the streak must be rebuilt.
func Backdated(s Streak, day string) bool {
	return s.LastDate != "" && day < s.LastDate
}

// Rebuild derives the streak state from every wear day: the run of
// consecutive days ending at the latest one.
func Rebuild(days []string) Streak {
	seen := make(map[string]struct{}, len(days))
	latest := ""
	for _, d := range days {
		seen[d] = struct{}{}
		if d > latest {
			latest = d
		}
	}
	if latest == "" {
		return Streak{}
	}
	count := 0
	for cursor := latest; cursor != ""; cursor = previous(cursor) {
		if _, ok := seen[cursor]; !ok {
			break
		}
		count++
	}
	return Streak{Count: count, LastDate: latest}
}

// Current returns the live streak as of today. A run is still alive on the
// day after its last wear and is 0 once a full day has been missed.
func Current(s Streak, today string) int {
	if s.LastDate == today || s.LastDate == previous(today) {
		return s.Count
	}
	return 0
}

// FromHistory derives the streak by scanning wear days. The scan starts at
// today if it has a wear, otherwise at yesterday, and walks back while each
// day has at least one wear. It agrees with Current over a fold of Advance.
func FromHistory(days []string, today string) int {
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		seen[d] = struct{}{}
	}
	cursor := today
	if _, ok := seen[cursor]; !ok {
		cursor = previous(today)
	}
	count := 0
	for cursor != "" {
		if _, ok := seen[cursor]; !ok {
			break
		}
		count++
		cursor = previous(cursor)
	}
	return count
}

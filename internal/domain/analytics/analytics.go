// Package analytics summarises a wardrobe and its recent wear history.
package analytics

import (
	"math"
	"time"

	"github.com/okian/fitcheck/internal/domain/colour"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/streak"
)

// RecentLimit is the number of history entries echoed in a Summary.
const RecentLimit = 10

// Summary is the analytics view of one wardrobe.
type Summary struct {
	TotalItems     int                   `json:"totalItems"`
	Tops           int                   `json:"tops"`
	Bottoms        int                   `json:"bottoms"`
	TotalWears     int                   `json:"totalWears"`
	AvgHarmony     int                   `json:"avgHarmony"`
	AvgDrip        int                   `json:"avgDrip"`
	AvgRating      float64               `json:"avgRating"`
	Streak         int                   `json:"streak"`
	MostWornTop    *model.ClothingItem   `json:"mostWornTop"`
	MostWornBottom *model.ClothingItem   `json:"mostWornBottom"`
	ColorFamilies  map[colour.Family]int `json:"colorFamilies"`
	RecentHistory  []model.HistoryEntry  `json:"recentHistory"`
}

// Summarize builds a Summary. history is the analysis window, newest first.
// Items with unparseable colours are left out of the colour families.
func Summarize(items []model.ClothingItem, history []model.HistoryEntry, now time.Time, loc *time.Location) Summary {
	s := Summary{
		TotalItems:    len(items),
		TotalWears:    len(history),
		ColorFamilies: make(map[colour.Family]int, len(colour.Families)),
		RecentHistory: make([]model.HistoryEntry, 0, min(len(history), RecentLimit)),
	}
	for _, f := range colour.Families {
		s.ColorFamilies[f] = 0
	}

	for i := range items {
		it := &items[i]
		switch it.Slot {
		case model.SlotTop:
			s.Tops++
			if s.MostWornTop == nil || it.WearCount > s.MostWornTop.WearCount {
				s.MostWornTop = it
			}
		case model.SlotBottom:
			s.Bottoms++
			if s.MostWornBottom == nil || it.WearCount > s.MostWornBottom.WearCount {
				s.MostWornBottom = it
			}
		}
		if fam, err := colour.FamilyOfHex(it.PrimaryHex); err == nil {
			s.ColorFamilies[fam]++
		}
	}
	if s.MostWornTop != nil {
		c := s.MostWornTop.Clone()
		s.MostWornTop = &c
	}
	if s.MostWornBottom != nil {
		c := s.MostWornBottom.Clone()
		s.MostWornBottom = &c
	}

	var harmonySum, dripSum, ratingSum, rated int
	days := make([]string, 0, len(history))
	for i, h := range history {
		harmonySum += h.HarmonyScore
		dripSum += h.DripScore
		if h.Rating != nil {
			ratingSum += *h.Rating
			rated++
		}
		if h.Worn {
			days = append(days, streak.Day(h.WornAt, loc))
		}
		if i < RecentLimit {
			s.RecentHistory = append(s.RecentHistory, h)
		}
	}
	if n := len(history); n > 0 {
		s.AvgHarmony = int(math.Round(float64(harmonySum) / float64(n)))
		s.AvgDrip = int(math.Round(float64(dripSum) / float64(n)))
	}
	if rated > 0 {
		s.AvgRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}
	s.Streak = streak.FromHistory(days, streak.Day(now, loc))
	return s
}

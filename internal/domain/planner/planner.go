// Package planner picks the best top/bottom pairing for a day and builds
// Monday to Friday plans that avoid repeating tops.
package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/fitcheck/internal/domain/caption"
	"github.com/okian/fitcheck/internal/domain/harmony"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/scoring"
	"github.com/okian/fitcheck/pkg/logger"
	"github.com/okian/fitcheck/pkg/metrics"
)

const (
	defaultBottomReuseLimit = 2
	dateLayout              = "2006-01-02"

	ModeDaily  = "daily"
	ModeWeekly = "weekly"
)

// Weekdays covered by a weekly plan, in order.
var Weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// Inventory is the read side of the wardrobe the planner selects from.
// ListItems must return copies that callers may keep.
type Inventory interface {
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.ClothingItem, error)
}

// DailyPlan is the outfit chosen for today.
type DailyPlan struct {
	Date      string        `json:"date"`
	DayOfWeek string        `json:"dayOfWeek"`
	Outfit    *model.Outfit `json:"outfit"`
}

// DayPlan is one entry of a WeeklyPlan.
type DayPlan struct {
	Day    string        `json:"day"`
	Date   string        `json:"date"`
	Outfit *model.Outfit `json:"outfit"`
}

// WeeklyPlan holds five DayPlans, Monday to Friday.
type WeeklyPlan struct {
	Week []DayPlan `json:"week"`
}

// Exclusions lists item ids to leave out of a selection. If excluding
// empties a slot, the exclusions for that slot are ignored.
type Exclusions struct {
	Tops    map[string]struct{}
	Bottoms map[string]struct{}
}

// Planner ranks candidate pairings.
type Planner struct {
	scorer           scoring.Scorer
	captions         caption.Captioner
	bottomReuseLimit int
	loc              *time.Location
	log              logger.Logger
}

// New creates a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		bottomReuseLimit: defaultBottomReuseLimit,
		loc:              time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scorer == nil {
		p.scorer = scoring.NewWeightedScorer()
	}
	if p.captions == nil {
		p.captions = caption.NewGenerator()
	}
	if p.log == nil {
		p.log = logger.Get().Named("planner")
	}
	return p
}

// Daily picks today's outfit from the inventory.
func (p *Planner) Daily(ctx context.Context, inv Inventory, now time.Time) (DailyPlan, error) {
	tops, bottoms, err := p.load(ctx, inv)
	if err != nil {
		return DailyPlan{}, err
	}

	now = now.In(p.loc)
	start := time.Now()
	outfit, err := p.Select(ctx, tops, bottoms, now, Exclusions{})
	if err != nil {
		return DailyPlan{}, err
	}
	metrics.RecordSelectionLatency(ModeDaily, float64(time.Since(start).Microseconds())/1000)
	metrics.RecordOutfitGenerated(ModeDaily)

	return DailyPlan{
		Date:      now.Format(time.RFC3339),
		DayOfWeek: now.Weekday().String(),
		Outfit:    &outfit,
	}, nil
}

// Weekly plans Monday to Friday of the current week, or of the next week
// when now falls on a weekend. A top picked on one day is excluded from the
// following days while alternatives remain.
func (p *Planner) Weekly(ctx context.Context, inv Inventory, now time.Time) (WeeklyPlan, error) {
	tops, bottoms, err := p.load(ctx, inv)
	if err != nil {
		return WeeklyPlan{}, err
	}

	monday := WeekStart(now.In(p.loc))
	usedTops := make(map[string]struct{}, len(Weekdays))
	bottomUses := make(map[string]int, len(Weekdays))
	plan := WeeklyPlan{Week: make([]DayPlan, 0, len(Weekdays))}

	start := time.Now()
	for i, wd := range Weekdays {
		date := monday.AddDate(0, 0, i)
		dp := DayPlan{Day: wd.String(), Date: date.Format(dateLayout)}

		excl := Exclusions{Tops: usedTops, Bottoms: p.exhaustedBottoms(bottomUses)}
		outfit, err := p.Select(ctx, tops, bottoms, date, excl)
		if err != nil {
			p.log.Error(ctx, "weekly selection failed", logger.String("day", dp.Day), logger.Error(err))
			plan.Week = append(plan.Week, dp)
			continue
		}
		dp.Outfit = &outfit
		usedTops[outfit.Top.ID] = struct{}{}
		bottomUses[outfit.Bottom.ID]++
		plan.Week = append(plan.Week, dp)
		metrics.RecordOutfitGenerated(ModeWeekly)
	}
	metrics.RecordSelectionLatency(ModeWeekly, float64(time.Since(start).Microseconds())/1000)

	return plan, nil
}

func (p *Planner) exhaustedBottoms(uses map[string]int) map[string]struct{} {
	if p.bottomReuseLimit <= 0 {
		return nil
	}
	out := make(map[string]struct{})
	for id, n := range uses {
		if n >= p.bottomReuseLimit {
			out[id] = struct{}{}
		}
	}
	return out
}

func (p *Planner) load(ctx context.Context, inv Inventory) (tops, bottoms []model.ClothingItem, err error) {
	tops, err = inv.ListItems(ctx, model.ItemFilter{Slot: model.SlotTop})
	if err != nil {
		return nil, nil, fmt.Errorf("list tops: %w", err)
	}
	bottoms, err = inv.ListItems(ctx, model.ItemFilter{Slot: model.SlotBottom})
	if err != nil {
		return nil, nil, fmt.Errorf("list bottoms: %w", err)
	}
	if len(tops) == 0 || len(bottoms) == 0 {
		metrics.RecordInsufficientInventory()
		return nil, nil, &InventoryError{Tops: len(tops), Bottoms: len(bottoms)}
	}
	return tops, bottoms, nil
}

// Select evaluates every top/bottom pair and returns the highest composite
// score. The first pair in iteration order wins ties. Drip score and
// caption are generated for the winner only.
func (p *Planner) Select(ctx context.Context, tops, bottoms []model.ClothingItem, day time.Time, excl Exclusions) (model.Outfit, error) {
	if len(tops) == 0 || len(bottoms) == 0 {
		return model.Outfit{}, &InventoryError{Tops: len(tops), Bottoms: len(bottoms)}
	}
	tops = withFallback(tops, excl.Tops)
	bottoms = withFallback(bottoms, excl.Bottoms)

	var (
		best      float64
		found     bool
		bestTop   int
		bestBot   int
		bestHarm  harmony.Result
		evaluated int
	)
	for i := range tops {
		for j := range bottoms {
			h, err := harmony.Classify(tops[i].PrimaryHex, bottoms[j].PrimaryHex)
			if err != nil {
				return model.Outfit{}, fmt.Errorf("classify %s/%s: %w", tops[i].ID, bottoms[j].ID, err)
			}
			evaluated++
			v := scoring.VarietyBonus(tops[i].WearCount, bottoms[j].WearCount)
			total := p.scorer.Composite(h.Score, v)
			if !found || total > best {
				best, found = total, true
				bestTop, bestBot, bestHarm = i, j, h
			}
		}
	}
	metrics.RecordCandidatesEvaluated(evaluated)

	if !found || math.IsNaN(best) {
		metrics.RecordNoCandidateFound()
		p.log.Error(ctx, "no candidate outfit selected",
			logger.Int("tops", len(tops)), logger.Int("bottoms", len(bottoms)), logger.Int("evaluated", evaluated))
		return model.Outfit{}, ErrNoCandidateFound
	}

	top, bottom := tops[bestTop], bottoms[bestBot]
	weekday := day.Weekday().String()
	outfit := model.Outfit{
		Top:          top.Clone(),
		Bottom:       bottom.Clone(),
		HarmonyScore: bestHarm.Score,
		DripScore:    p.scorer.Drip(bestHarm.Score, scoring.VarietyBonus(top.WearCount, bottom.WearCount)),
		HarmonyType:  bestHarm.Type,
		Explanation:  p.captions.Caption(bestHarm, weekday),
		Date:         day.Format(dateLayout),
		DayOfWeek:    weekday,
	}
	metrics.RecordHarmonyScore(string(outfit.HarmonyType), outfit.HarmonyScore)
	metrics.RecordDripScore(outfit.DripScore)

	p.log.Debug(ctx, "outfit selected",
		logger.String("top", top.ID), logger.String("bottom", bottom.ID),
		logger.Int("harmony", outfit.HarmonyScore), logger.String("type", string(outfit.HarmonyType)),
		logger.Int("evaluated", evaluated))
	return outfit, nil
}

func withFallback(items []model.ClothingItem, exclude map[string]struct{}) []model.ClothingItem {
	if len(exclude) == 0 {
		return items
	}
	out := make([]model.ClothingItem, 0, len(items))
	for _, it := range items {
		if _, skip := exclude[it.ID]; !skip {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return items
	}
	return out
}

// WeekStart returns midnight of the Monday that begins the plan week for t.
// Saturdays and Sundays roll forward to the coming Monday.
func WeekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch wd := t.Weekday(); wd {
	case time.Saturday:
		return midnight.AddDate(0, 0, 2)
	case time.Sunday:
		return midnight.AddDate(0, 0, 1)
	default:
		return midnight.AddDate(0, 0, -int(wd-time.Monday))
	}
}

package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fitcheck/internal/domain/analytics"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/types"
	"github.com/okian/fitcheck/internal/seed"
	"github.com/okian/fitcheck/pkg/logger"
)

const pollInterval = 50 * time.Millisecond

// Run executes the complete smoke run against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("smoke")
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("wears", cfg.Wears),
		logger.Int("workers", cfg.Workers))

	// Step 1: health
	if _, err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: inventory
	tops, bottoms, err := ensureInventory(ctx, client, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("inventory: %w", err)
	}

	// Step 3: daily
	daily, err := client.Daily(ctx)
	if err != nil {
		return stats, fmt.Errorf("daily plan: %w", err)
	}
	if err := verifyOutfit(daily.Outfit); err != nil {
		return stats, fmt.Errorf("daily plan: %w", err)
	}
	if cfg.Verbose {
		log.Info(ctx, "daily outfit",
			logger.String("top", daily.Outfit.Top.Name),
			logger.String("bottom", daily.Outfit.Bottom.Name),
			logger.Int("harmony", daily.Outfit.HarmonyScore),
			logger.Int("drip", daily.Outfit.DripScore),
			logger.String("caption", daily.Outfit.Explanation))
	}

	// Step 4: weekly
	week, err := client.Weekly(ctx)
	if err != nil {
		return stats, fmt.Errorf("weekly plan: %w", err)
	}
	if err := verifyWeek(week, tops, bottoms, cfg.ReuseLimit); err != nil {
		return stats, fmt.Errorf("weekly plan: %w", err)
	}

	// Step 5: wears
	before, err := client.Analytics(ctx)
	if err != nil {
		return stats, fmt.Errorf("analytics: %w", err)
	}
	accepted := submitWears(ctx, client, cfg, daily.Outfit, stats)

	// Step 6: wait for the worker pool
	want := before.TotalWears + accepted
	summary, err := waitForWears(ctx, client, want)
	if err != nil {
		return stats, err
	}
	stats.HistoryEntries = summary.TotalWears
	stats.Streak = summary.Streak
	if accepted > 0 && summary.Streak < 1 {
		return stats, fmt.Errorf("%w: streak is %d after wearing today", ErrVerification, summary.Streak)
	}

	// Step 7: rate the newest entry
	if accepted > 0 {
		hist, err := client.History(ctx, 1)
		if err != nil {
			return stats, fmt.Errorf("history: %w", err)
		}
		if len(hist) == 0 {
			return stats, fmt.Errorf("%w: empty history", ErrVerification)
		}
		if _, err := client.Rate(ctx, hist[0].ID, 5); err != nil {
			return stats, fmt.Errorf("rate: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// ensureInventory returns the slot counts, adding starter garments first
// when seeding is enabled and a slot is empty.
func ensureInventory(ctx context.Context, client *Client, cfg Config, stats *Stats) (int, int, error) {
	tops, err := client.Items(ctx, model.SlotTop)
	if err != nil {
		return 0, 0, err
	}
	bottoms, err := client.Items(ctx, model.SlotBottom)
	if err != nil {
		return 0, 0, err
	}
	if (len(tops) > 0 && len(bottoms) > 0) || !cfg.SeedItems {
		return len(tops), len(bottoms), nil
	}

	for _, item := range seed.Wardrobe() {
		_, err := client.AddItem(ctx, types.ItemRequest{
			Type:       string(item.Slot),
			Name:       item.Name,
			Brand:      item.Brand,
			PrimaryHex: item.PrimaryHex,
			Palette:    item.Palette,
			Tags:       item.Tags,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("add %s: %w", item.Name, err)
		}
		stats.ItemsAdded++
		if item.Slot == model.SlotTop {
			tops = append(tops, item)
		} else {
			bottoms = append(bottoms, item)
		}
	}
	return len(tops), len(bottoms), nil
}

// submitWears posts cfg.Wears wears of outfit concurrently, then replays the
// first event id to check deduplication. It returns the accepted count.
func submitWears(ctx context.Context, client *Client, cfg Config, outfit *model.Outfit, stats *Stats) int {
	if cfg.Wears == 0 {
		return 0
	}
	ids := make(chan string, cfg.Workers*2)
	var (
		submitted, accepted, duplicate, failed atomic.Int64
		wg                                     sync.WaitGroup
	)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				submitted.Add(1)
				ack, err := client.SubmitWear(ctx, types.WearRequest{
					EventID:      id,
					TopID:        outfit.Top.ID,
					BottomID:     outfit.Bottom.ID,
					HarmonyScore: outfit.HarmonyScore,
					DripScore:    outfit.DripScore,
				})
				switch {
				case err != nil:
					failed.Add(1)
				case ack.Duplicate:
					duplicate.Add(1)
				default:
					accepted.Add(1)
				}
			}
		}()
	}

	first := uuid.NewString()
	go func() {
		defer close(ids)
		for i := 0; i < cfg.Wears; i++ {
			id := first
			if i > 0 {
				id = uuid.NewString()
			}
			select {
			case <-ctx.Done():
				return
			case ids <- id:
			}
		}
	}()
	wg.Wait()

	// Replay after the first submission has been recorded.
	ack, err := client.SubmitWear(ctx, types.WearRequest{
		EventID: first, TopID: outfit.Top.ID, BottomID: outfit.Bottom.ID,
		HarmonyScore: outfit.HarmonyScore, DripScore: outfit.DripScore,
	})
	submitted.Add(1)
	switch {
	case err != nil:
		failed.Add(1)
	case ack.Duplicate:
		duplicate.Add(1)
	default:
		accepted.Add(1)
	}

	stats.WearsSubmitted = int(submitted.Load())
	stats.WearsAccepted = int(accepted.Load())
	stats.WearsDuplicate = int(duplicate.Load())
	stats.WearsFailed = int(failed.Load())
	return stats.WearsAccepted
}

// waitForWears polls analytics until at least want wears are recorded.
func waitForWears(ctx context.Context, client *Client, want int) (analytics.Summary, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		s, err := client.Analytics(ctx)
		if err != nil {
			var se *StatusError
			if !errors.As(err, &se) || se.Status != http.StatusTooManyRequests {
				return analytics.Summary{}, fmt.Errorf("analytics: %w", err)
			}
		} else if s.TotalWears >= want {
			return s, nil
		}
		select {
		case <-ctx.Done():
			return analytics.Summary{}, fmt.Errorf("waiting for %d wears: %w", want, ctx.Err())
		case <-ticker.C:
		}
	}
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.WearsSubmitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "smoke run passed",
		logger.Int("itemsAdded", stats.ItemsAdded),
		logger.Int("wearsSubmitted", stats.WearsSubmitted),
		logger.Int("wearsAccepted", stats.WearsAccepted),
		logger.Int("wearsDuplicate", stats.WearsDuplicate),
		logger.Int("wearsFailed", stats.WearsFailed),
		logger.Int("historyEntries", stats.HistoryEntries),
		logger.Int("streak", stats.Streak),
		logger.Duration("duration", stats.Duration),
		logger.Float64("wearsPerSecond", perSecond))
}

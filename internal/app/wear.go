package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fitcheck/internal/adapters/repository"
	"github.com/okian/fitcheck/internal/domain/analytics"
	"github.com/okian/fitcheck/internal/domain/dedupe"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/streak"
	"github.com/okian/fitcheck/internal/domain/types"
	"github.com/okian/fitcheck/pkg/logger"
	"github.com/okian/fitcheck/pkg/metrics"
)

func (s *Service) prepareWear(ev model.WearEvent) (model.WearEvent, error) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	now := s.now()
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = now
	}
	if streak.Day(ev.OccurredAt, s.loc) > streak.Day(now, s.loc) {
		return ev, fmt.Errorf("%w: date %s is in the future", model.ErrInvalidWear, ev.OccurredAt.Format(time.RFC3339))
	}
	return ev, ev.Validate()
}

// SubmitWear queues a wear for the writer pool. A repeated event id is
// acknowledged as a duplicate and not applied again. ErrQueueFull signals
// backpressure; the id is forgotten so the caller may retry.
func (s *Service) SubmitWear(ctx context.Context, ev model.WearEvent) (types.WearAck, error) {
	if _, err := s.running(); err != nil {
		return types.WearAck{}, err
	}
	ev, err := s.prepareWear(ev)
	if err != nil {
		return types.WearAck{}, err
	}

	if s.deduper.SeenAndRecord(ctx, ev.EventID) {
		metrics.RecordWearDuplicate()
		s.logger.Debug(ctx, "duplicate wear skipped", logger.String("event_id", ev.EventID))
		return types.WearAck{Status: types.StatusDuplicate, EventID: ev.EventID, Duplicate: true}, nil
	}
	if err := s.queue.Enqueue(ctx, ev); err != nil {
		s.deduper.Unrecord(ctx, ev.EventID)
		return types.WearAck{}, fmt.Errorf("enqueue wear: %w", err)
	}
	return types.WearAck{Status: types.StatusAccepted, EventID: ev.EventID}, nil
}

// Wear applies a wear immediately and returns the new history entry. It
// shares the event id space with SubmitWear.
func (s *Service) Wear(ctx context.Context, ev model.WearEvent) (model.HistoryEntry, bool, error) {
	store, err := s.running()
	if err != nil {
		return model.HistoryEntry{}, false, err
	}
	ev, err = s.prepareWear(ev)
	if err != nil {
		return model.HistoryEntry{}, false, err
	}
	if s.deduper.SeenAndRecord(ctx, ev.EventID) {
		metrics.RecordWearDuplicate()
		return model.HistoryEntry{}, true, nil
	}

	entry, err := store.ApplyWear(ctx, ev)
	wearHook(store, s.deduper, s.loc, s.now)(ctx, ev, entry, err)
	if err != nil {
		metrics.RecordWearFailed()
		return model.HistoryEntry{}, false, err
	}
	metrics.RecordWearApplied()
	return entry, false, nil
}

// wearHook runs after every applied wear. A failed event id is forgotten so
// it can be resubmitted, an applied one becomes evictable, and the streak
// gauge follows successful wears.
func wearHook(store repository.Store, d dedupe.Deduper, loc *time.Location, now func() time.Time) func(context.Context, model.WearEvent, model.HistoryEntry, error) {
	return func(ctx context.Context, ev model.WearEvent, _ model.HistoryEntry, err error) {
		if err != nil {
			d.Unrecord(ctx, ev.EventID)
			return
		}
		d.Release(ctx, ev.EventID)
		if st, serr := store.Streak(ctx); serr == nil {
			metrics.UpdateStreak(streak.Current(st, streak.Day(now(), loc)))
		}
	}
}

// Rate attaches a 1..5 rating to a history entry.
func (s *Service) Rate(ctx context.Context, entryID string, rating int) (model.HistoryEntry, error) {
	store, err := s.running()
	if err != nil {
		return model.HistoryEntry{}, err
	}
	entry, err := store.RateEntry(ctx, entryID, rating)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	metrics.RecordRating()
	return entry, nil
}

// History returns up to limit entries, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	return store.History(ctx, limit)
}

// Streak returns the live streak length as of now.
func (s *Service) Streak(ctx context.Context) (int, error) {
	store, err := s.running()
	if err != nil {
		return 0, err
	}
	st, err := store.Streak(ctx)
	if err != nil {
		return 0, err
	}
	return streak.Current(st, streak.Day(s.now(), s.loc)), nil
}

// Analytics summarises the wardrobe over the configured history window.
func (s *Service) Analytics(ctx context.Context) (analytics.Summary, error) {
	store, err := s.running()
	if err != nil {
		return analytics.Summary{}, err
	}
	items, err := store.ListItems(ctx, model.ItemFilter{})
	if err != nil {
		return analytics.Summary{}, err
	}
	history, err := store.History(ctx, s.analyticsWindow)
	if err != nil {
		return analytics.Summary{}, err
	}
	summary := analytics.Summarize(items, history, s.now(), s.loc)
	metrics.UpdateStreak(summary.Streak)
	return summary, nil
}

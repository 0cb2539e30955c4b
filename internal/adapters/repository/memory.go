package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/streak"
	"github.com/okian/fitcheck/pkg/metrics"
)

// MemoryStore is an in-process Store guarded by a single mutex.
type MemoryStore struct {
	cfg storeConfig

	mu      sync.RWMutex
	items   []model.ClothingItem // insertion order
	index   map[string]int
	history []model.HistoryEntry // oldest first
	streak  streak.Streak
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryStore{cfg: cfg, index: make(map[string]int)}
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func (s *MemoryStore) ListItems(_ context.Context, f model.ItemFilter) ([]model.ClothingItem, error) {
	defer observe("list_items", time.Now())
	s.mu.RLock()
	out := make([]model.ClothingItem, 0, len(s.items))
	for _, it := range s.items {
		if f.Matches(it) {
			out = append(out, it.Clone())
		}
	}
	s.mu.RUnlock()
	model.SortItems(out, f.Sort)
	return out, nil
}

func (s *MemoryStore) GetItem(_ context.Context, id string) (model.ClothingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.ClothingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return s.items[i].Clone(), nil
}

func (s *MemoryStore) AddItem(_ context.Context, item model.ClothingItem) (model.ClothingItem, error) {
	defer observe("add_item", time.Now())
	if item.ID == "" {
		item.ID = s.cfg.newID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := item.Validate(); err != nil {
		return model.ClothingItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.index[item.ID]; dup {
		return model.ClothingItem{}, fmt.Errorf("%w: duplicate id %s", model.ErrInvalidItem, item.ID)
	}
	s.index[item.ID] = len(s.items)
	s.items = append(s.items, item.Clone())
	s.publishCounts()
	return item.Clone(), nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, id string, patch model.ItemPatch) (model.ClothingItem, error) {
	defer observe("update_item", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.ClothingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	updated := patch.Apply(s.items[i])
	if err := updated.Validate(); err != nil {
		return model.ClothingItem{}, err
	}
	s.items[i] = updated
	return updated.Clone(), nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, id string) error {
	defer observe("remove_item", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	s.publishCounts()
	return nil
}

func (s *MemoryStore) CountItems(_ context.Context, slot model.Slot) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slot == "" {
		return len(s.items), nil
	}
	n := 0
	for _, it := range s.items {
		if it.Slot == slot {
			n++
		}
	}
	return n, nil
}

// publishCounts must be called with s.mu held.
func (s *MemoryStore) publishCounts() {
	var tops, bottoms int
	for _, it := range s.items {
		if it.Slot == model.SlotTop {
			tops++
		} else {
			bottoms++
		}
	}
	metrics.UpdateWardrobeItems(string(model.SlotTop), tops)
	metrics.UpdateWardrobeItems(string(model.SlotBottom), bottoms)
}

func (s *MemoryStore) ApplyWear(_ context.Context, ev model.WearEvent) (model.HistoryEntry, error) {
	defer observe("apply_wear", time.Now())
	if err := ev.Validate(); err != nil {
		return model.HistoryEntry{}, err
	}
	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	ti, ok := s.index[ev.TopID]
	if !ok || s.items[ti].Slot != model.SlotTop {
		return model.HistoryEntry{}, fmt.Errorf("%w: top %s", ErrItemNotFound, ev.TopID)
	}
	bi, ok := s.index[ev.BottomID]
	if !ok || s.items[bi].Slot != model.SlotBottom {
		return model.HistoryEntry{}, fmt.Errorf("%w: bottom %s", ErrItemNotFound, ev.BottomID)
	}

	entry := model.HistoryEntry{
		ID:           s.cfg.newID(),
		TopID:        ev.TopID,
		BottomID:     ev.BottomID,
		HarmonyScore: ev.HarmonyScore,
		DripScore:    ev.DripScore,
		Worn:         true,
		WornAt:       at,
	}
	s.history = append(s.history, entry)
	for _, i := range []int{ti, bi} {
		s.items[i].WearCount++
		s.items[i].LastWorn = laterOf(s.items[i].LastWorn, at)
	}
	day := streak.Day(at, s.cfg.loc)
	if streak.Backdated(s.streak, day) {
		s.streak = streak.Rebuild(s.wearDays())
	} else {
		s.streak = streak.Advance(s.streak, day)
	}
	return entry, nil
}

// wearDays lists the civil day of every worn entry. Callers hold s.mu.
func (s *MemoryStore) wearDays() []string {
	days := make([]string, 0, len(s.history))
	for _, h := range s.history {
		if h.Worn {
			days = append(days, streak.Day(h.WornAt, s.cfg.loc))
		}
	}
	return days
}

// laterOf keeps a last-worn time from moving backwards.
func laterOf(last *time.Time, at time.Time) *time.Time {
	if last != nil && last.After(at) {
		return last
	}
	return &at
}

func (s *MemoryStore) MarkItemWorn(_ context.Context, id string, at time.Time) (model.ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.ClothingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.items[i].WearCount++
	s.items[i].LastWorn = laterOf(s.items[i].LastWorn, at.UTC())
	return s.items[i].Clone(), nil
}

func (s *MemoryStore) RateEntry(_ context.Context, entryID string, rating int) (model.HistoryEntry, error) {
	if err := model.ValidateRating(rating); err != nil {
		return model.HistoryEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID == entryID {
			r := rating
			s.history[i].Rating = &r
			return cloneEntry(s.history[i]), nil
		}
	}
	return model.HistoryEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

func (s *MemoryStore) History(_ context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(limit, len(s.history))
	out := make([]model.HistoryEntry, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, cloneEntry(s.history[i]))
	}
	return out, nil
}

func (s *MemoryStore) Streak(_ context.Context) (streak.Streak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streak, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func cloneEntry(e model.HistoryEntry) model.HistoryEntry {
	if e.Rating != nil {
		r := *e.Rating
		e.Rating = &r
	}
	return e
}

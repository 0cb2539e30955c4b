package service

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/okian/fitcheck/internal/domain/colour"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/planner"
)

// plain strips markup from free text and trims it.
func (s *Service) plain(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

func (s *Service) plainTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = s.plain(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizePalette(palette []string) ([]string, error) {
	out := make([]string, 0, len(palette))
	for _, p := range palette {
		n, err := colour.NormalizeHex(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// ListItems returns wardrobe items matching f.
func (s *Service) ListItems(ctx context.Context, f model.ItemFilter) ([]model.ClothingItem, error) {
	store, err := s.running()
	if err != nil {
		return nil, err
	}
	return store.ListItems(ctx, f)
}

// GetItem returns one item.
func (s *Service) GetItem(ctx context.Context, id string) (model.ClothingItem, error) {
	store, err := s.running()
	if err != nil {
		return model.ClothingItem{}, err
	}
	return store.GetItem(ctx, id)
}

// AddItem cleans free text, normalises colours and stores a new item. Usage
// fields supplied by the caller are ignored. An empty palette defaults to the
// primary colour.
func (s *Service) AddItem(ctx context.Context, item model.ClothingItem) (model.ClothingItem, error) {
	store, err := s.running()
	if err != nil {
		return model.ClothingItem{}, err
	}

	item.ID = ""
	item.WearCount = 0
	item.LastWorn = nil
	item.CreatedAt = time.Time{}
	item.Name = s.plain(item.Name)
	item.Brand = s.plain(item.Brand)
	item.Tags = s.plainTags(item.Tags)

	if hex, err := colour.NormalizeHex(item.PrimaryHex); err == nil {
		item.PrimaryHex = hex
	}
	if len(item.Palette) == 0 && colour.ValidHex(item.PrimaryHex) {
		item.Palette = []string{item.PrimaryHex}
	}
	if palette, err := normalizePalette(item.Palette); err == nil {
		item.Palette = palette
	}
	return store.AddItem(ctx, item)
}

// UpdateItem applies patch after the same cleaning as AddItem.
func (s *Service) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (model.ClothingItem, error) {
	store, err := s.running()
	if err != nil {
		return model.ClothingItem{}, err
	}
	if patch.Name != nil {
		v := s.plain(*patch.Name)
		patch.Name = &v
	}
	if patch.Brand != nil {
		v := s.plain(*patch.Brand)
		patch.Brand = &v
	}
	if patch.Tags != nil {
		v := s.plainTags(*patch.Tags)
		patch.Tags = &v
	}
	if patch.PrimaryHex != nil {
		if hex, err := colour.NormalizeHex(*patch.PrimaryHex); err == nil {
			patch.PrimaryHex = &hex
		}
	}
	if patch.Palette != nil {
		if palette, err := normalizePalette(*patch.Palette); err == nil {
			patch.Palette = &palette
		}
	}
	return store.UpdateItem(ctx, id, patch)
}

// RemoveItem deletes an item. History entries that reference it are kept.
func (s *Service) RemoveItem(ctx context.Context, id string) error {
	store, err := s.running()
	if err != nil {
		return err
	}
	return store.RemoveItem(ctx, id)
}

// MarkItemWorn bumps a single item's wear count without logging an outfit.
func (s *Service) MarkItemWorn(ctx context.Context, id string) (model.ClothingItem, error) {
	store, err := s.running()
	if err != nil {
		return model.ClothingItem{}, err
	}
	return store.MarkItemWorn(ctx, id, s.now())
}

// Daily selects today's outfit.
func (s *Service) Daily(ctx context.Context) (planner.DailyPlan, error) {
	store, err := s.running()
	if err != nil {
		return planner.DailyPlan{}, err
	}
	return s.planner.Daily(ctx, store, s.now())
}

// Weekly builds the Monday to Friday plan.
func (s *Service) Weekly(ctx context.Context) (planner.WeeklyPlan, error) {
	store, err := s.running()
	if err != nil {
		return planner.WeeklyPlan{}, err
	}
	return s.planner.Weekly(ctx, store, s.now())
}

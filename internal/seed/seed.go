// Package seed holds the starter wardrobe loaded into an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/okian/fitcheck/internal/domain/model"
)

type garment struct {
	slot    model.Slot
	name    string
	brand   string
	palette []string
	tags    []string
}

var starter = []garment{
	{model.SlotTop, "Nike Tech Fleece Black", "Nike", []string{"#1a1a1a", "#333333", "#4d4d4d"}, []string{"school-safe", "gym-only", "favorite"}},
	{model.SlotTop, "Jordan Essentials Gray", "Jordan", []string{"#808080", "#999999", "#666666"}, []string{"school-safe"}},
	{model.SlotTop, "Nike Tech Fleece Navy", "Nike", []string{"#1b2a4a", "#2d4373", "#0f1d33"}, []string{"school-safe", "favorite"}},
	{model.SlotTop, "Champion Reverse Weave Forest", "Champion", []string{"#2d5a27", "#3d7a37", "#1d3a17"}, []string{"school-safe"}},
	{model.SlotTop, "Under Armour Storm Crimson", "Under Armour", []string{"#8b0000", "#a52a2a", "#660000"}, []string{"gym-only"}},
	{model.SlotTop, "Nike Club Fleece White", "Nike", []string{"#f0f0f0", "#e0e0e0", "#ffffff"}, []string{"school-safe", "new-drop"}},
	{model.SlotTop, "Jordan Flight Heritage Teal", "Jordan", []string{"#008080", "#20b2aa", "#005f5f"}, []string{"school-safe", "favorite"}},
	{model.SlotTop, "Nike Sportswear Charcoal", "Nike", []string{"#36454f", "#4a5c6a", "#2a3640"}, []string{"school-safe"}},

	{model.SlotBottom, "Nike Dri-FIT Black Shorts", "Nike", []string{"#111111", "#222222", "#333333"}, []string{"gym-only", "school-safe", "favorite"}},
	{model.SlotBottom, "Jordan Mesh Basketball Red", "Jordan", []string{"#cc0000", "#ff0000", "#990000"}, []string{"gym-only"}},
	{model.SlotBottom, "Nike Tech Fleece Gray Shorts", "Nike", []string{"#6b6b6b", "#858585", "#525252"}, []string{"school-safe"}},
	{model.SlotBottom, "Under Armour Cargo Olive", "Under Armour", []string{"#556b2f", "#6b8e23", "#3d4f22"}, []string{"school-safe"}},
	{model.SlotBottom, "Champion Classic Navy Shorts", "Champion", []string{"#1c2951", "#2a3d6e", "#131c38"}, []string{"school-safe"}},
	{model.SlotBottom, "Nike Sportswear White Shorts", "Nike", []string{"#e8e8e8", "#d4d4d4", "#f5f5f5"}, []string{"school-safe", "new-drop"}},
	{model.SlotBottom, "Jordan Dri-FIT Teal Shorts", "Jordan", []string{"#20b2aa", "#3cb3ad", "#178f89"}, []string{"gym-only", "new-drop"}},
}

// Wardrobe returns fresh copies of the starter items: eight tops then seven
// bottoms, never worn. The first palette entry is the primary colour.
func Wardrobe() []model.ClothingItem {
	out := make([]model.ClothingItem, 0, len(starter))
	for _, g := range starter {
		out = append(out, model.ClothingItem{
			Slot:       g.slot,
			Name:       g.name,
			Brand:      g.brand,
			PrimaryHex: g.palette[0],
			Palette:    append([]string(nil), g.palette...),
			Tags:       append([]string(nil), g.tags...),
		})
	}
	return out
}

// Store is the subset of the wardrobe store seeding needs.
type Store interface {
	CountItems(ctx context.Context, slot model.Slot) (int, error)
	AddItem(ctx context.Context, item model.ClothingItem) (model.ClothingItem, error)
}

// IfEmpty loads the starter wardrobe when s holds no items and returns how
// many were added.
func IfEmpty(ctx context.Context, s Store) (int, error) {
	n, err := s.CountItems(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	added := 0
	for _, it := range Wardrobe() {
		if _, err := s.AddItem(ctx, it); err != nil {
			return added, fmt.Errorf("seed %q: %w", it.Name, err)
		}
		added++
	}
	return added, nil
}

// Package model contains the wardrobe records passed between layers.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/fitcheck/internal/domain/colour"
)

// Slot is the position a garment fills in an outfit.
type Slot string

const (
	SlotTop    Slot = "top"
	SlotBottom Slot = "bottom"
)

// ParseSlot accepts top/bottom and the legacy hoodie/shorts names.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "hoodie":
		return SlotTop, nil
	case "bottom", "shorts":
		return SlotBottom, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
}

const (
	maxNameLen = 120
	maxTags    = 20
)

// ClothingItem is one garment in the wardrobe.
type ClothingItem struct {
	ID         string     `json:"id"`
	Slot       Slot       `json:"type"`
	Name       string     `json:"name"`
	Brand      string     `json:"brand,omitempty"`
	PrimaryHex string     `json:"primaryHex"`
	Palette    []string   `json:"palette"`
	ImageURLs  []string   `json:"imageUrls,omitempty"`
	WearCount  int        `json:"wearCount"`
	LastWorn   *time.Time `json:"lastWorn"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Validate checks the item invariants.
func (c ClothingItem) Validate() error {
	if c.Slot != SlotTop && c.Slot != SlotBottom {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, c.Slot)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if len(c.Name) > maxNameLen {
		return fmt.Errorf("%w: name longer than %d", ErrInvalidItem, maxNameLen)
	}
	if !colour.ValidHex(c.PrimaryHex) {
		return fmt.Errorf("%w: primaryHex: %w", ErrInvalidItem, colour.ErrInvalidColorFormat)
	}
	for _, p := range c.Palette {
		if !colour.ValidHex(p) {
			return fmt.Errorf("%w: palette %q: %w", ErrInvalidItem, p, colour.ErrInvalidColorFormat)
		}
	}
	if c.WearCount < 0 {
		return fmt.Errorf("%w: negative wear count", ErrInvalidItem)
	}
	if len(c.Tags) > maxTags {
		return fmt.Errorf("%w: more than %d tags", ErrInvalidItem, maxTags)
	}
	return nil
}

// HasTag reports whether the item carries tag, ignoring case.
func (c ClothingItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c ClothingItem) Clone() ClothingItem {
	out := c
	out.Palette = append([]string(nil), c.Palette...)
	out.ImageURLs = append([]string(nil), c.ImageURLs...)
	out.Tags = append([]string(nil), c.Tags...)
	if c.LastWorn != nil {
		t := *c.LastWorn
		out.LastWorn = &t
	}
	return out
}

// ItemPatch carries optional field updates. Nil fields are left unchanged.
type ItemPatch struct {
	Name       *string   `json:"name,omitempty"`
	Brand      *string   `json:"brand,omitempty"`
	PrimaryHex *string   `json:"primaryHex,omitempty"`
	Palette    *[]string `json:"palette,omitempty"`
	ImageURLs  *[]string `json:"imageUrls,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

// Apply returns a copy of item with the patch applied.
func (p ItemPatch) Apply(item ClothingItem) ClothingItem {
	out := item.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Brand != nil {
		out.Brand = *p.Brand
	}
	if p.PrimaryHex != nil {
		out.PrimaryHex = *p.PrimaryHex
	}
	if p.Palette != nil {
		out.Palette = append([]string(nil), (*p.Palette)...)
	}
	if p.ImageURLs != nil {
		out.ImageURLs = append([]string(nil), (*p.ImageURLs)...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}
	return out
}

// SortOrder selects the ordering for item listings. The zero value keeps
// insertion order.
type SortOrder string

const (
	SortInserted SortOrder = ""
	// SortCreated lists the newest items first.
	SortCreated SortOrder = "createdAt"
	// SortLastWorn lists the most recently worn items first, never-worn last.
	SortLastWorn SortOrder = "lastWorn"
)

// ParseSortOrder accepts "", createdAt and lastWorn.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.TrimSpace(s)) {
	case SortInserted:
		return SortInserted, nil
	case SortCreated:
		return SortCreated, nil
	case SortLastWorn:
		return SortLastWorn, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// ItemFilter narrows ListItems. Zero values mean no filter.
type ItemFilter struct {
	Slot Slot
	Tag  string
	Sort SortOrder
}

// Matches reports whether item passes the slot and tag filters.
func (f ItemFilter) Matches(item ClothingItem) bool {
	if f.Slot != "" && item.Slot != f.Slot {
		return false
	}
	if f.Tag != "" && !item.HasTag(f.Tag) {
		return false
	}
	return true
}

// SortItems orders items in place. Ties keep their existing order.
func SortItems(items []ClothingItem, order SortOrder) {
	switch order {
	case SortCreated:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	case SortLastWorn:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].LastWorn, items[j].LastWorn
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.After(*b)
			}
		})
	}
}

// Package repository stores one user's wardrobe: clothing items, the worn
// outfit history and the wear streak.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/streak"
)

// Store is the wardrobe aggregate for a single user. Reads return copies.
// ApplyWear is the only way wear counts, history and the streak change, and
// it changes all three in one step.
type Store interface {
	// ListItems returns items matching f, oldest first unless f.Sort says otherwise.
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.ClothingItem, error)
	// GetItem returns ErrItemNotFound for unknown ids.
	GetItem(ctx context.Context, id string) (model.ClothingItem, error)
	// AddItem assigns ID and CreatedAt when empty and stores the item.
	AddItem(ctx context.Context, item model.ClothingItem) (model.ClothingItem, error)
	UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (model.ClothingItem, error)
	RemoveItem(ctx context.Context, id string) error
	// CountItems returns the number of items in slot, or all items when slot is empty.
	CountItems(ctx context.Context, slot model.Slot) (int, error)

	// ApplyWear appends a history entry, increments both items' wear counts,
	// sets their last-worn time and advances the streak.
	ApplyWear(ctx context.Context, ev model.WearEvent) (model.HistoryEntry, error)
	// MarkItemWorn increments a single item's wear count and last-worn time.
	MarkItemWorn(ctx context.Context, id string, at time.Time) (model.ClothingItem, error)
	// RateEntry attaches a 1..5 rating to a history entry.
	RateEntry(ctx context.Context, entryID string, rating int) (model.HistoryEntry, error)
	// History returns up to limit entries, newest first.
	History(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	Streak(ctx context.Context) (streak.Streak, error)

	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Open builds the store named by driver.
func Open(ctx context.Context, driver, databaseURL string, opts ...Option) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverPostgres:
		return OpenPostgres(ctx, databaseURL, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

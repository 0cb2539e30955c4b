package planner

import "errors"

// Selection errors.
var (
	// ErrInsufficientInventory means a slot has no items to choose from.
	ErrInsufficientInventory = errors.New("need at least one top and one bottom")
	// ErrNoCandidateFound means no pairing won despite non-empty inventories.
	ErrNoCandidateFound = errors.New("no candidate outfit found")
)

// InventoryError carries the slot counts behind ErrInsufficientInventory.
type InventoryError struct {
	Tops    int
	Bottoms int
}

func (e *InventoryError) Error() string {
	return ErrInsufficientInventory.Error()
}

func (e *InventoryError) Unwrap() error { return ErrInsufficientInventory }

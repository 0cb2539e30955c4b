package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for wardrobe store errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrItemNotFound  = fmt.Errorf("clothing item %w", ErrNotFound)
	ErrEntryNotFound = fmt.Errorf("history entry %w", ErrNotFound)
	ErrInvalidLimit  = errors.New("invalid history limit")
	ErrUnknownDriver = errors.New("unknown store driver")
)

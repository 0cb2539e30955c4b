package model

import "errors"

// Validation errors for wardrobe records.
var (
	ErrInvalidSlot   = errors.New("invalid slot")
	ErrInvalidItem   = errors.New("invalid clothing item")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidWear   = errors.New("invalid wear event")
)

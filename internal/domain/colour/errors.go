package colour

import "errors"

// Sentinel errors for colour parsing.
var (
	ErrInvalidColorFormat = errors.New("invalid color format")
)

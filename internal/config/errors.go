package config

import "errors"

var (
	// ErrInvalidConfig reports a loaded configuration that failed Validate.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("loading configuration")
)

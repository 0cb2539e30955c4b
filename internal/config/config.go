// Package config defines service configuration and its defaults.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UserID scopes the wardrobe store.
	UserID string `koanf:"user_id"`

	// StoreDriver selects memory or postgres.
	StoreDriver string `koanf:"store_driver"`
	// DatabaseURL is required for the postgres driver.
	DatabaseURL string `koanf:"database_url"`

	// WearQueueSize bounds the in-memory wear event queue.
	WearQueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of wear workers. One keeps wears applied
	// in submission order.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets how many wear event ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// RandomSeed seeds scoring and captions. Zero seeds from the clock.
	RandomSeed uint64 `koanf:"random_seed"`
	// BottomReuseLimit caps how often one bottom appears in a weekly plan.
	// Zero disables the cap.
	BottomReuseLimit int `koanf:"bottom_reuse_limit"`
	// WearerName is used in captions.
	WearerName string `koanf:"wearer_name"`
	// Timezone is the IANA zone that decides dates, weekdays and streak days.
	Timezone string `koanf:"timezone"`

	// AnalyticsWindow is how many history entries analytics reads.
	AnalyticsWindow int `koanf:"analytics_window"`
	// HistoryLimit caps GET /api/history?limit.
	HistoryLimit int `koanf:"history_limit"`

	// RateLimitPerMinute is the per-client request budget. Zero disables it.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
	// CORSOrigin is sent as Access-Control-Allow-Origin when set.
	CORSOrigin string `koanf:"cors_origin"`

	// SeedWardrobe loads the starter wardrobe into an empty store.
	SeedWardrobe bool `koanf:"seed_wardrobe"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		UserID:             "default",
		StoreDriver:        StoreMemory,
		WearQueueSize:      1024,
		WorkerCount:        1,
		DedupeSize:         4096,
		BottomReuseLimit:   2,
		WearerName:         "champ",
		Timezone:           "UTC",
		AnalyticsWindow:    500,
		HistoryLimit:       100,
		RateLimitPerMinute: 100,
		CORSOrigin:         "*",
		SeedWardrobe:       true,
	}
}

// Location resolves Timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var problems []string
	if c.Addr == "" {
		problems = append(problems, "addr must not be empty")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "database_url is required for the postgres store")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store_driver %q", c.StoreDriver))
	}
	if c.WearQueueSize < 1 {
		problems = append(problems, "queue_size must be positive")
	}
	if c.WorkerCount < 1 {
		problems = append(problems, "worker_count must be positive")
	}
	if c.DedupeSize < 1 {
		problems = append(problems, "dedupe_size must be positive")
	}
	if c.BottomReuseLimit < 0 {
		problems = append(problems, "bottom_reuse_limit must not be negative")
	}
	if c.AnalyticsWindow < 1 {
		problems = append(problems, "analytics_window must be positive")
	}
	if c.HistoryLimit < 1 {
		problems = append(problems, "history_limit must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		problems = append(problems, "rate_limit_per_minute must not be negative")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("unknown timezone %q", c.Timezone))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

package repository

import (
	"time"

	"github.com/google/uuid"
)

type storeConfig struct {
	userID string
	loc    *time.Location
	newID  func() string
}

func defaultConfig() storeConfig {
	return storeConfig{
		userID: "default",
		loc:    time.UTC,
		newID:  func() string { return uuid.NewString() },
	}
}

// Option applies a configuration option to a Store.
type Option func(*storeConfig)

// WithUserID scopes the store to one wardrobe owner.
func WithUserID(id string) Option {
	return func(c *storeConfig) {
		if id != "" {
			c.userID = id
		}
	}
}

// WithLocation sets the time zone that decides which calendar day a wear
// counts towards for the streak.
func WithLocation(loc *time.Location) Option {
	return func(c *storeConfig) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(c *storeConfig) {
		if fn != nil {
			c.newID = fn
		}
	}
}

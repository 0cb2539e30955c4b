// Package smoke drives a running fitcheck server through its public API and
// checks the planner and wear log end to end.
package smoke

import "time"

// Defaults for Config.
const (
	DefaultBaseURL    = "http://localhost:9080"
	DefaultWears      = 20
	DefaultWorkers    = 4
	DefaultTimeout    = 10 * time.Second
	DefaultReuseLimit = 2
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Wears      int           // Number of wears to submit; keep below the server's analytics window
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	ReuseLimit int           // Expected weekly bottom reuse limit, 0 to skip the check
	SeedItems  bool          // Add starter garments when the wardrobe is short
	Verbose    bool          // Log every step result
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Wears < 0 {
		c.Wears = 0
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Stats holds run statistics.
type Stats struct {
	ItemsAdded     int
	WearsSubmitted int
	WearsAccepted  int
	WearsDuplicate int
	WearsFailed    int
	HistoryEntries int
	Streak         int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

package planner

import (
	"time"

	"github.com/okian/fitcheck/internal/domain/caption"
	"github.com/okian/fitcheck/internal/domain/scoring"
	"github.com/okian/fitcheck/pkg/logger"
)

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithScorer sets the scorer used for ranking and drip scores.
func WithScorer(s scoring.Scorer) Option {
	return func(p *Planner) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithCaptioner sets the caption generator.
func WithCaptioner(c caption.Captioner) Option {
	return func(p *Planner) {
		if c != nil {
			p.captions = c
		}
	}
}

// WithBottomReuseLimit excludes a bottom from later days of a weekly plan
// once it has been picked n times. Zero disables bottom exclusion.
func WithBottomReuseLimit(n int) Option {
	return func(p *Planner) {
		if n >= 0 {
			p.bottomReuseLimit = n
		}
	}
}

// WithLocation sets the time zone used for dates and weekdays.
func WithLocation(loc *time.Location) Option {
	return func(p *Planner) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithLogger sets the planner logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.log = l
		}
	}
}

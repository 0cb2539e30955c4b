// Package scoring blends harmony and wear variety into the composite
// ranking score and the drip score shown to the user.
package scoring

import (
	"math"

	"github.com/okian/fitcheck/internal/domain/rng"
)

// Default weights and jitter ranges.
const (
	defaultDripHarmonyWeight      = 0.7
	defaultDripVarietyWeight      = 0.3
	defaultDripJitter             = 5
	defaultCompositeHarmonyWeight = 0.6
	defaultCompositeVarietyWeight = 0.3
	defaultCompositeJitter        = 10

	maxScoreValue     = 100
	varietyPerWear    = 5
	defaultRandomSeed = 42
)

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithSource sets the random source for the jitter terms.
func WithSource(src rng.Source) Option {
	return func(s *WeightedScorer) {
		if src != nil {
			s.rng = src
		}
	}
}

// WithDripJitter sets the width of the uniform drip jitter. Zero disables it.
func WithDripJitter(width float64) Option {
	return func(s *WeightedScorer) {
		if width >= 0 {
			s.dripJitter = width
		}
	}
}

// WithCompositeJitter sets the width of the uniform ranking jitter. Zero disables it.
func WithCompositeJitter(width float64) Option {
	return func(s *WeightedScorer) {
		if width >= 0 {
			s.compositeJitter = width
		}
	}
}

// Scorer computes scores for a candidate pairing.
type Scorer interface {
	// Drip returns the user-facing score in [0,100].
	Drip(harmonyScore int, variety float64) int
	// Composite returns the ranking score used to pick a winner.
	Composite(harmonyScore int, variety float64) float64
}

// WeightedScorer implements Scorer with fixed linear weights plus uniform jitter.
type WeightedScorer struct {
	dripHarmony      float64
	dripVariety      float64
	dripJitter       float64
	compositeHarmony float64
	compositeVariety float64
	compositeJitter  float64
	rng              rng.Source
}

// NewWeightedScorer creates a scorer. Without WithSource it uses a fixed seed.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		dripHarmony:      defaultDripHarmonyWeight,
		dripVariety:      defaultDripVarietyWeight,
		dripJitter:       defaultDripJitter,
		compositeHarmony: defaultCompositeHarmonyWeight,
		compositeVariety: defaultCompositeVarietyWeight,
		compositeJitter:  defaultCompositeJitter,
		rng:              rng.New(defaultRandomSeed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VarietyBonus favours rarely worn items: 100 minus 5 per combined wear, floored at 0.
func VarietyBonus(topWears, bottomWears int) float64 {
	return math.Max(0, maxScoreValue-float64(topWears+bottomWears)*varietyPerWear)
}

// Drip computes round(clamp(h*0.7 + v*0.3 + U[0,5), 0, 100)).
// Repeated calls with equal inputs may differ.
func (s *WeightedScorer) Drip(harmonyScore int, variety float64) int {
	raw := float64(harmonyScore)*s.dripHarmony + variety*s.dripVariety + s.rng.Float64()*s.dripJitter
	return int(math.Round(math.Max(0, math.Min(maxScoreValue, raw))))
}

// Composite computes h*0.6 + v*0.3 + U[0,10). It draws exactly one value.
func (s *WeightedScorer) Composite(harmonyScore int, variety float64) float64 {
	return float64(harmonyScore)*s.compositeHarmony + variety*s.compositeVariety + s.rng.Float64()*s.compositeJitter
}

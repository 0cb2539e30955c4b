// Package harmony classifies the hue relationship between two garment
// colours and scores how well they pair.
package harmony

import (
	"fmt"
	"math"

	"github.com/okian/fitcheck/internal/domain/colour"
)

// Type labels a hue relationship.
type Type string

const (
	Complementary      Type = "complementary"
	Analogous          Type = "analogous"
	Triadic            Type = "triadic"
	SplitComplementary Type = "split-complementary"
	Monochrome         Type = "monochrome"
	NeutralAccent      Type = "neutral-accent"
	NeutralNeutral     Type = "neutral-neutral"
	Neutral            Type = "neutral"
)

// Types lists every harmony type.
var Types = []Type{Complementary, Analogous, Triadic, SplitComplementary, Monochrome, NeutralAccent, NeutralNeutral, Neutral}

// Base scores per relationship.
const (
	baseNeutral            = 60
	baseAnalogous          = 78
	baseComplementary      = 88
	baseTriadic            = 82
	baseSplitComplementary = 75
	baseMonochrome         = 85
	baseNeutralFloor       = 80

	monochromeMaxHue       = 10
	monochromeMinLightness = 20
	lowSaturation          = 10

	contrastWeight   = 3
	contrastBonusCap = 15

	skinBaseline = 70
	skinWeight   = 0.2
)

var explanations = map[Type]string{
	Complementary:      "Complementary colors create maximum visual impact",
	Analogous:          "Analogous palette for a smooth, cohesive vibe",
	Triadic:            "Triadic harmony hits different with balanced energy",
	SplitComplementary: "Split-complementary for subtle contrast",
	Monochrome:         "Monochrome layers = clean and sophisticated",
	NeutralAccent:      "Neutral base lets the accent color pop hard",
	NeutralNeutral:     "All-neutral fits are timeless and versatile",
	Neutral:            "Solid color pairing with good balance",
}

const fallbackExplanation = "Nice color combination"

// Result is the outcome of Classify.
type Result struct {
	Score       int    `json:"score"`
	Type        Type   `json:"type"`
	Explanation string `json:"explanation"`
}

// Explanation returns the fixed sentence for t.
func Explanation(t Type) string {
	if s, ok := explanations[t]; ok {
		return s
	}
	return fallbackExplanation
}

// Classify scores the pairing of a top colour with a bottom colour.
// The result depends only on the two colours.
func Classify(topHex, bottomHex string) (Result, error) {
	top, err := colour.ParseHex(topHex)
	if err != nil {
		return Result{}, fmt.Errorf("top colour: %w", err)
	}
	bottom, err := colour.ParseHex(bottomHex)
	if err != nil {
		return Result{}, fmt.Errorf("bottom colour: %w", err)
	}
	return ClassifyRGB(top, bottom), nil
}

// ClassifyRGB is Classify for parsed colours.
func ClassifyRGB(top, bottom colour.RGB) Result {
	h1, h2 := top.HSL(), bottom.HSL()
	d := colour.HueDistance(h1.H, h2.H)

	kind, base := Neutral, float64(baseNeutral)
	switch {
	case d <= 30:
		kind, base = Analogous, baseAnalogous
	case d >= 150 && d <= 210:
		kind, base = Complementary, baseComplementary
	case d >= 110 && d <= 140:
		kind, base = Triadic, baseTriadic
	case d >= 60 && d <= 90:
		kind, base = SplitComplementary, baseSplitComplementary
	}

	// Overrides apply in order; the last one that matches wins.
	if d < monochromeMaxHue && math.Abs(h1.L-h2.L) > monochromeMinLightness {
		kind, base = Monochrome, baseMonochrome
	}
	lowTop, lowBottom := h1.S < lowSaturation, h2.S < lowSaturation
	if lowTop || lowBottom {
		base = math.Max(base, baseNeutralFloor)
		if lowTop && lowBottom {
			kind = NeutralNeutral
		} else {
			kind = NeutralAccent
		}
	}

	contrastBonus := math.Min(colour.Contrast(top, bottom)*contrastWeight, contrastBonusCap)
	skin := (SkinToneScore(h1) + SkinToneScore(h2)) / 2
	skinBonus := (skin - skinBaseline) * skinWeight

	score := int(math.Round(base + contrastBonus + skinBonus))
	score = min(100, max(0, score))

	return Result{Score: score, Type: kind, Explanation: Explanation(kind)}
}

// SkinToneScore rates how a colour sits against fair, cool-undertone skin.
// Rules are checked in order and the first match wins.
func SkinToneScore(c colour.HSL) float64 {
	switch {
	case c.H >= 40 && c.H <= 65 && c.S > 50:
		return 40
	case c.H >= 25 && c.H <= 40 && c.S > 60:
		return 50
	case c.H >= 180 && c.H <= 300:
		return 95
	case c.S < 15:
		return 85
	case c.H >= 330 || c.H <= 15:
		return 80
	default:
		return 70
	}
}

// Package colour converts hex colours to RGB and HSL and measures contrast
// using the WCAG 2.0 relative luminance formula.
package colour

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// HSL holds hue in [0,360) and saturation and lightness in [0,100].
type HSL struct {
	H, S, L float64
}

// ValidHex reports whether hex is in #RRGGBB form.
func ValidHex(hex string) bool {
	return hexPattern.MatchString(hex)
}

// ParseHex parses a #RRGGBB string.
func ParseHex(hex string) (RGB, error) {
	if !ValidHex(hex) {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrInvalidColorFormat, hex, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// HexToRGB returns the channels of a #RRGGBB colour.
func HexToRGB(hex string) (r, g, b uint8, err error) {
	c, err := ParseHex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	return c.R, c.G, c.B, nil
}

// HexToHSL converts a #RRGGBB colour to HSL.
func HexToHSL(hex string) (HSL, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return HSL{}, err
	}
	return c.HSL(), nil
}

// Hex formats the colour as lowercase #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSL converts to hue/saturation/lightness.
func (c RGB) HSL() HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	l := (maxVal + minVal) / 2

	// Achromatic.
	if maxVal == minVal {
		return HSL{H: 0, S: 0, L: l * 100}
	}

	d := maxVal - minVal
	var s float64
	if l > 0.5 {
		s = d / (2 - maxVal - minVal)
	} else {
		s = d / (maxVal + minVal)
	}

	var h float64
	switch maxVal {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h >= 360 {
		h -= 360
	}
	return HSL{H: h, S: s * 100, L: l * 100}
}

// RGB converts back to 8-bit channels.
func (c HSL) RGB() RGB {
	col := colorful.Hsl(c.H, c.S/100, c.L/100).Clamped()
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}
}

// RelativeLuminance returns the WCAG relative luminance in [0,1].
func RelativeLuminance(r, g, b uint8) float64 {
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
}

// Luminance is RelativeLuminance for an RGB value.
func (c RGB) Luminance() float64 {
	return RelativeLuminance(c.R, c.G, c.B)
}

func linearize(channel uint8) float64 {
	v := float64(channel) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns (Llighter+0.05)/(Ldarker+0.05), in [1,21].
func ContrastRatio(hexA, hexB string) (float64, error) {
	a, err := ParseHex(hexA)
	if err != nil {
		return 0, err
	}
	b, err := ParseHex(hexB)
	if err != nil {
		return 0, err
	}
	return Contrast(a, b), nil
}

// Contrast is ContrastRatio for parsed colours.
func Contrast(a, b RGB) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// HueDistance is the shortest angular distance between two hues, in [0,180].
func HueDistance(h1, h2 float64) float64 {
	d := math.Abs(h1 - h2)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Family is a coarse colour grouping used by wardrobe analytics.
type Family string

const (
	FamilyNeutral Family = "neutral"
	FamilyCool    Family = "cool"
	FamilyWarm    Family = "warm"
	FamilyEarth   Family = "earth"
)

// Families lists every Family in display order.
var Families = []Family{FamilyNeutral, FamilyCool, FamilyWarm, FamilyEarth}

// FamilyOf groups a colour by channel spread and dominant channel.
func FamilyOf(c RGB) Family {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	if float64(hi-lo)/255 < 0.15 {
		return FamilyNeutral
	}
	switch {
	case c.B > c.R && c.B > c.G:
		return FamilyCool
	case c.R > c.B:
		return FamilyWarm
	default:
		return FamilyEarth
	}
}

// FamilyOfHex parses hex and returns its Family.
func FamilyOfHex(hex string) (Family, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return FamilyOf(c), nil
}

// NormalizeHex lowercases a valid hex colour.
func NormalizeHex(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if !ValidHex(hex) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	return strings.ToLower(hex), nil
}

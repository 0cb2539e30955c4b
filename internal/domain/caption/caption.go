// Package caption renders the short hype text attached to a chosen outfit.
package caption

import (
	"fmt"
	"strings"

	"github.com/okian/fitcheck/internal/domain/harmony"
	"github.com/okian/fitcheck/internal/domain/rng"
)

const (
	defaultWearer     = "champ"
	defaultRandomSeed = 17
)

var vibes = map[string][]string{
	"Monday":    {"fresh start energy", "school drip"},
	"Tuesday":   {"mid-week flex", "low-key fire"},
	"Wednesday": {"hump day heat", "peak performance"},
	"Thursday":  {"almost-weekend energy", "effortless cool"},
	"Friday":    {"weekend preview", "main character energy"},
	"Saturday":  {"full casual flex", "hangout certified"},
	"Sunday":    {"recovery day clean", "chill mode activated"},
}

var everydayVibes = []string{"everyday drip", "locked in"}

var closers = []string{
	"Walk in like you own the place. 👑",
	"Best-dressed in the building and it's not even close. 🔥",
	"Confidence is the best accessory, and you've got it locked. 💯",
	"This fit? Certified heat. No debate. 🏀",
}

type templateArgs struct {
	h      harmony.Result
	day    string
	vibe   string
	wearer string
}

var templates = []func(a templateArgs) string{
	func(a templateArgs) string {
		return fmt.Sprintf("This %s combo is absolutely unmatched. %s and on a %s? That's %s energy right there.",
			a.h.Type, a.h.Explanation, a.day, a.vibe)
	},
	func(a templateArgs) string {
		return fmt.Sprintf("Yo %s, this fit goes crazy. The %s pairing gives off pure %s vibes. %s. You're about to be the best-dressed in the building.",
			a.wearer, a.h.Type, a.vibe, a.h.Explanation)
	},
	func(a templateArgs) string {
		return fmt.Sprintf("%s. This %s fit is giving %s and honestly nobody's touching this drip. Harmony score: %d/100.",
			a.h.Explanation, a.day, a.vibe, a.h.Score)
	},
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source used to pick phrases.
func WithSource(src rng.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.rng = src
		}
	}
}

// WithWearer sets the name used by personalised templates.
func WithWearer(name string) Option {
	return func(g *Generator) {
		if n := strings.TrimSpace(name); n != "" {
			g.wearer = n
		}
	}
}

// Captioner renders a caption for a harmony result on a weekday.
type Captioner interface {
	Caption(h harmony.Result, day string) string
}

// Generator is the default Captioner.
type Generator struct {
	rng    rng.Source
	wearer string
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rng: rng.New(defaultRandomSeed), wearer: defaultWearer}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Vibes returns the phrase set for a weekday, or the everyday set.
func Vibes(day string) []string {
	if v, ok := vibes[day]; ok {
		return v
	}
	return everydayVibes
}

// Caption picks a vibe, a template and a closer, in that order.
func (g *Generator) Caption(h harmony.Result, day string) string {
	dayVibes := Vibes(day)
	vibe := dayVibes[g.rng.IntN(len(dayVibes))]
	tmpl := templates[g.rng.IntN(len(templates))]
	closer := closers[g.rng.IntN(len(closers))]
	return tmpl(templateArgs{h: h, day: day, vibe: vibe, wearer: g.wearer}) + " " + closer
}

package stripe

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledanim/util"
)

// Stripe is a run of pixels in one colour.
type Stripe struct {
	Colour colorful.Color
	Length int32
}

// RandomStripeGenerator creates stripes of random length, either from a
// palette or with random hues.
type RandomStripeGenerator struct {
	rand      *rand.Rand
	palette   []colorful.Color
	current   int
	stripeMin int32
	stripeMax int32
}

// NewRandomStripeGenerator creates an instance of a RandomStripeGenerator.
// A nil palette picks random hues.
func NewRandomStripeGenerator(r *rand.Rand, palette []colorful.Color, stripeMin, stripeMax int32) *RandomStripeGenerator {
	g := new(RandomStripeGenerator)
	g.rand = r
	g.palette = palette
	g.current = -1
	g.stripeMin = stripeMin
	g.stripeMax = stripeMax
	if g.stripeMin < 1 {
		g.stripeMin = 1
	}
	if g.stripeMax <= g.stripeMin {
		g.stripeMax = g.stripeMin + 1
	}
	return g
}

// CreateStripe returns the next stripe.
func (g *RandomStripeGenerator) CreateStripe() Stripe {
	var colour colorful.Color
	if len(g.palette) == 0 {
		colour = colorful.Hsl(g.rand.Float64()*360.0, util.RandomiseSaturation(g.rand, 0.7, 1.0), 0.2)
	} else if len(g.palette) == 1 {
		colour = g.palette[0]
	} else {
		// Choose a new colour that's different from the previous colour
		for {
			newCurrent := g.rand.Intn(len(g.palette))
			if newCurrent != g.current {
				g.current = newCurrent
				break
			}
		}

		colour = g.palette[g.current]
	}

	stripeLength := g.rand.Int31n(g.stripeMax-g.stripeMin) + g.stripeMin
	return Stripe{colour, stripeLength}
}

package stream

import (
	"math"

	"github.com/matt-g-everett/ledanim/stream/stripe"
)

// A StripeSource hands out consecutive stripes.
type StripeSource interface {
	CreateStripe() stripe.Stripe
}

// NewStripeSheet creates frames that scroll a band of stripes along the
// strip by pixelsPerFrame each frame. The band is exactly as long as one
// full cycle, so the last frame runs seamlessly into the first.
func NewStripeSheet(source StripeSource, frames, pixels int, pixelsPerFrame float64) FrameSheet {
	if pixelsPerFrame <= 0 {
		pixelsPerFrame = 1
	}

	bandLength := int(math.Ceil(float64(frames) * pixelsPerFrame))
	if bandLength < 1 {
		bandLength = 1
	}
	band := NewFrame(bandLength)
	for filled := 0; filled < bandLength; {
		s := source.CreateStripe()
		if s.Length <= 0 {
			s.Length = 1
		}
		for j := int32(0); j < s.Length && filled < bandLength; j++ {
			band.pixels[filled] = s.Colour
			filled++
		}
	}

	sheet := make(FrameSheet, frames)
	for k := 0; k < frames; k++ {
		offset := int(math.Round(float64(k) * pixelsPerFrame))
		f := NewFrame(pixels)
		for i := 0; i < pixels; i++ {
			f.pixels[i] = band.pixels[(i+offset)%bandLength]
		}
		sheet[k] = f
	}

	return sheet
}

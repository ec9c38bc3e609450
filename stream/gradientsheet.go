package stream

import (
	"math"
)

const (
	gradientSaturation = 1.0
	gradientLuminance  = 0.05
	gradientPulse      = 0.04
)

// NewGradientSheet creates frames that cycle a gradient along the strip.
// Frame k advances the gradient by trailLength/frames pixels, and lut (one
// value per frame, may be nil) lifts the luminance to make the cycle pulse.
func NewGradientSheet(gradient GradientTable, frames, pixels, trailLength int, lut []float64) FrameSheet {
	if trailLength <= 0 {
		trailLength = pixels
	}

	sheet := make(FrameSheet, frames)
	step := float64(trailLength) / float64(frames)
	for k := 0; k < frames; k++ {
		current := float64(k) * step
		luminance := gradientLuminance
		if k < len(lut) {
			luminance += gradientPulse * lut[k]
		}

		f := NewFrame(pixels)
		for i := 0; i < pixels; i++ {
			t := math.Mod((float64(i+pixels) - current), float64(trailLength)) / float64(trailLength)
			if t < 0 {
				t += 1
			}
			f.pixels[i] = gradient.GetColor(t, gradientSaturation, luminance)
		}
		sheet[k] = f
	}

	return sheet
}

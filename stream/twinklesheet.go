package stream

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledanim/util"
)

const twinklePeak = 0.6

// twinkle is one brightening of a pixel that starts at frame start and
// follows lut.
type twinkle struct {
	start int
	lut   []float64
}

// gain at frame k of a cycle of frames. A twinkle running past the last
// frame carries on from the first.
func (t twinkle) gain(k, frames int) float64 {
	age := ((k-t.start)%frames + frames) % frames
	if age >= len(t.lut) {
		return 0
	}
	return t.lut[age]
}

func scheduleTwinkles(r *rand.Rand, frames int, chance int32, memoizer util.Memoizer) []twinkle {
	var twinkles []twinkle
	for k := 0; k < frames; {
		if r.Int31n(chance) != 0 {
			k++
			continue
		}

		length := (r.Intn(18) + 6) * 2
		if length > frames {
			length = frames
		}
		twinkles = append(twinkles, twinkle{start: k, lut: util.GenerateLutMemoized(length, memoizer)})
		k += length
	}
	return twinkles
}

// NewTwinkleSheet creates frames where every pixel holds a colour from
// palette and now and then brightens towards a fixed luminance and fades
// back. Each frame a resting pixel starts a twinkle with a 1 in chance
// probability.
func NewTwinkleSheet(r *rand.Rand, palette []colorful.Color, frames, pixels int, chance int32, memoizer util.Memoizer) FrameSheet {
	if chance < 1 {
		chance = 1
	}

	sheet := make(FrameSheet, frames)
	for k := range sheet {
		sheet[k] = NewFrame(pixels)
	}
	if len(palette) == 0 {
		return sheet
	}

	for i := 0; i < pixels; i++ {
		h, c, l := palette[r.Intn(len(palette))].Hcl()
		twinkles := scheduleTwinkles(r, frames, chance, memoizer)
		for k := 0; k < frames; k++ {
			gain := 0.0
			for _, t := range twinkles {
				gain = math.Max(gain, t.gain(k, frames))
			}

			// Calculate the difference to the max luminance we want
			lumDiff := twinklePeak - l
			sheet[k].pixels[i] = colorful.Hcl(h, c, l+(lumDiff*gain))
		}
	}

	return sheet
}

package stream

import (
	"math"
	"math/rand"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
)

// streak is a band of colour sliding along the strip. It fades in across
// the first half of the cycle and out across the second.
type streak struct {
	colour colorful.Color
	start  float64
	speed  float64
	length float64
	phase  int
}

func (s streak) gain(age, frames int) float64 {
	d := 2 * float64(age) / float64(frames)
	if d > 1 {
		d = 2 - d
	}
	return ease.InOutQuad(d)
}

func (s streak) draw(f *Frame, k, frames int) {
	age := ((k-s.phase)%frames + frames) % frames
	bias := s.gain(age, frames)
	if bias <= 0 {
		return
	}

	n := f.Len()
	head := s.start + s.speed*float64(age)
	for i := int(math.Ceil(head)); i <= int(math.Floor(head+s.length)); i++ {
		p := (i%n + n) % n
		f.pixels[p] = f.pixels[p].BlendHcl(s.colour, bias)
	}
}

// NewStreakSheet creates frames with count streaks over back. Every streak
// takes a colour from palette, a random start, phase and direction, and a
// speed of between half and all of maxSpeed pixels per frame.
func NewStreakSheet(r *rand.Rand, palette []colorful.Color, back colorful.Color,
	frames, pixels, count int, length, maxSpeed float64) FrameSheet {

	streaks := make([]streak, 0, count)
	if len(palette) > 0 {
		for j := 0; j < count; j++ {
			s := streak{
				colour: palette[r.Intn(len(palette))],
				start:  r.Float64() * float64(pixels),
				speed:  maxSpeed * (0.5 + r.Float64()/2),
				length: length,
				phase:  r.Intn(frames),
			}
			if r.Intn(2) == 0 {
				s.speed = -s.speed
			}
			streaks = append(streaks, s)
		}
	}

	sheet := make(FrameSheet, frames)
	for k := 0; k < frames; k++ {
		f := NewFrame(pixels)
		f.Fill(back)
		for _, s := range streaks {
			s.draw(f, k, frames)
		}
		sheet[k] = f
	}

	return sheet
}

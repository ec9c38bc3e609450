package stream

import (
	"log"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// A Sink receives every frame a Surface renders.
type Sink interface {
	Publish(f *Frame) error
}

// Surface draws sheet frames onto a strip and publishes the result. It
// implements sprite.Surface.
type Surface struct {
	sheet  Sheet
	next   Sheet
	mix    float64
	offset float64
	back   colorful.Color
	frame  *Frame
	sinks  []Sink
}

// NewSurface creates an instance of a Surface for a strip of pixels.
func NewSurface(pixels int, back colorful.Color, sheet Sheet, sinks ...Sink) *Surface {
	s := new(Surface)
	s.sheet = sheet
	s.back = back
	s.frame = NewFrame(pixels)
	s.frame.Fill(back)
	s.sinks = sinks
	return s
}

// AddSink publishes future frames to sink as well.
func (s *Surface) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// Clear fills the strip with the back colour.
func (s *Surface) Clear() {
	s.frame.Fill(s.back)
}

// Render draws frame i of the sheet, blended towards the next sheet during
// a transition, and publishes it.
func (s *Surface) Render(i int) {
	offset := int(math.Round(s.offset))
	s.frame.CopyFrom(s.sheet.Frame(i), offset)

	if s.next != nil && s.mix > 0 {
		next := NewFrame(s.frame.Len())
		next.Fill(s.back)
		next.CopyFrom(s.next.Frame(i), offset)
		s.frame = s.frame.InterpolateFrame(next, s.mix)
	}

	for _, sink := range s.sinks {
		if err := sink.Publish(s.frame); err != nil {
			log.Printf("publish frame: %v", err)
		}
	}
}

// Frame returns the last rendered frame.
func (s *Surface) Frame() *Frame {
	return s.frame
}

// Pan moves the picture along the strip by displacement pixels. Non-finite
// displacements are ignored.
func (s *Surface) Pan(displacement float64) {
	if math.IsNaN(displacement) || math.IsInf(displacement, 0) {
		return
	}
	s.offset = math.Mod(s.offset+displacement, float64(s.frame.Len()))
}

// Offset returns the current pan in pixels.
func (s *Surface) Offset() float64 {
	return s.offset
}

// Sheet returns the sheet being drawn.
func (s *Surface) Sheet() Sheet {
	return s.sheet
}

// BeginTransition starts blending towards next. SetMix moves the blend.
func (s *Surface) BeginTransition(next Sheet) {
	s.next = next
	s.mix = 0
}

// SetMix sets how far the transition has progressed, 0 to 1.
func (s *Surface) SetMix(mix float32) {
	s.mix = math.Max(0, math.Min(float64(mix), 1))
}

// Transitioning reports whether a transition is in progress.
func (s *Surface) Transitioning() bool {
	return s.next != nil
}

// CancelTransition drops the next sheet and keeps the current one.
func (s *Surface) CancelTransition() {
	s.next = nil
	s.mix = 0
}

// CompleteTransition makes the next sheet current.
func (s *Surface) CompleteTransition() {
	if s.next == nil {
		return
	}
	s.sheet = s.next
	s.next = nil
	s.mix = 0
}

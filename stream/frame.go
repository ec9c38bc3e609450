package stream

import (
	"encoding/binary"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPixels is the length of the strip when none is configured.
const DefaultPixels = 500

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a new Frame instance of n black pixels.
func NewFrame(n int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, n)
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// SetPixel sets pixel i.
func (f *Frame) SetPixel(i int, c colorful.Color) {
	f.pixels[i] = c
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// CopyFrom writes src into f rotated by offset pixels. When src is shorter
// than f the remaining pixels are left untouched.
func (f *Frame) CopyFrom(src *Frame, offset int) {
	n := len(f.pixels)
	if n == 0 {
		return
	}
	offset %= n
	if offset < 0 {
		offset += n
	}

	count := len(src.pixels)
	if count > n {
		count = n
	}
	for j := 0; j < count; j++ {
		f.pixels[(j+offset)%n] = src.pixels[j]
	}
}

// InterpolateFrame merges two frames.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(len(f.pixels))
	for i := 0; i < len(f.pixels) && i < len(f2.pixels); i++ {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint).Clamped()
	}

	return out
}

// MarshalBinary converts a Frame into binary data.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.pixels) > 0xffff {
		return nil, fmt.Errorf("frame of %d pixels too long to encode", len(f.pixels))
	}

	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("frame header truncated: %d bytes", len(data))
	}
	n := int(binary.LittleEndian.Uint16(data))
	if len(data) != 2+n*3 {
		return fmt.Errorf("frame of %d pixels needs %d bytes, got %d", n, 2+n*3, len(data))
	}

	f.pixels = make([]colorful.Color, n)
	for i := 0; i < n; i++ {
		p := data[2+i*3:]
		f.pixels[i] = colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
	}
	return nil
}

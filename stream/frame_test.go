package stream

import (
	"bytes"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	red   = colorful.Color{R: 1, G: 0, B: 0}
	green = colorful.Color{R: 0, G: 1, B: 0}
	blue  = colorful.Color{R: 0, G: 0, B: 1}
	black = colorful.Color{}
)

func frameOf(colours ...colorful.Color) *Frame {
	f := NewFrame(len(colours))
	for i, c := range colours {
		f.SetPixel(i, c)
	}
	return f
}

func TestMarshalBinary(t *testing.T) {
	f := frameOf(red, green, blue)
	data, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	want := []byte{3, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255}
	if !bytes.Equal(data, want) {
		t.Fatalf("expected %v, got %v", want, data)
	}

	var decoded Frame
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if decoded.Len() != 3 || decoded.Pixel(1) != green {
		t.Fatalf("unexpected decoded frame %+v", decoded.pixels)
	}
}

func TestUnmarshalBinaryRejectsBadLength(t *testing.T) {
	cases := [][]byte{
		nil,
		{1},
		{2, 0, 1, 2, 3},
	}
	for _, data := range cases {
		var f Frame
		if err := f.UnmarshalBinary(data); err == nil {
			t.Fatalf("expected an error for %v", data)
		}
	}
}

func TestCopyFrom(t *testing.T) {
	cases := []struct {
		name   string
		dst    int
		src    []colorful.Color
		offset int
		want   []colorful.Color
	}{
		{"aligned", 3, []colorful.Color{red, green, blue}, 0, []colorful.Color{red, green, blue}},
		{"rotate_right", 3, []colorful.Color{red, green, blue}, 1, []colorful.Color{blue, red, green}},
		{"rotate_left", 3, []colorful.Color{red, green, blue}, -1, []colorful.Color{green, blue, red}},
		{"rotate_past_length", 3, []colorful.Color{red, green, blue}, 7, []colorful.Color{blue, red, green}},
		{"short_source", 4, []colorful.Color{red, green}, 1, []colorful.Color{black, red, green, black}},
		{"long_source", 2, []colorful.Color{red, green, blue}, 0, []colorful.Color{red, green}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dst := NewFrame(c.dst)
			dst.CopyFrom(frameOf(c.src...), c.offset)
			for i, want := range c.want {
				if dst.Pixel(i) != want {
					t.Fatalf("pixel %d: expected %v, got %v", i, want, dst.Pixel(i))
				}
			}
		})
	}
}

func TestInterpolateFrameEnds(t *testing.T) {
	a := frameOf(red, green)
	b := frameOf(blue, red)

	start := a.InterpolateFrame(b, 0)
	end := a.InterpolateFrame(b, 1)
	for i := 0; i < 2; i++ {
		if !start.Pixel(i).AlmostEqualRgb(a.Pixel(i)) {
			t.Fatalf("pixel %d at 0 should match a, got %v", i, start.Pixel(i))
		}
		if !end.Pixel(i).AlmostEqualRgb(b.Pixel(i)) {
			t.Fatalf("pixel %d at 1 should match b, got %v", i, end.Pixel(i))
		}
	}
}

package export

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledanim/stream"
)

func testSheet() stream.FrameSheet {
	a := stream.NewFrame(3)
	a.SetPixel(0, colorful.Color{R: 1})
	b := stream.NewFrame(3)
	b.SetPixel(2, colorful.Color{B: 1})
	return stream.FrameSheet{a, b}
}

func TestRenderScales(t *testing.T) {
	cases := []struct {
		scale      int
		wantWidth  int
		wantHeight int
	}{
		{1, 3, 2},
		{4, 12, 8},
		{0, 3, 2},
	}

	for _, c := range cases {
		img := Render(testSheet(), c.scale).Image()
		bounds := img.Bounds()
		if bounds.Dx() != c.wantWidth || bounds.Dy() != c.wantHeight {
			t.Fatalf("scale %d: expected %dx%d, got %dx%d", c.scale, c.wantWidth, c.wantHeight, bounds.Dx(), bounds.Dy())
		}
	}
}

func TestNearestNeighbourBlocks(t *testing.T) {
	img := Render(testSheet(), 4).Image()

	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	black := color.RGBA{A: 0xff}

	checks := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, red},
		{3, 3, red},
		{4, 0, black},
		{11, 7, blue},
		{8, 4, blue},
		{8, 3, black},
	}
	for _, c := range checks {
		if got := img.RGBAAt(c.x, c.y); got != c.want {
			t.Errorf("(%d,%d): expected %v, got %v", c.x, c.y, c.want, got)
		}
	}
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.png")
	if err := Render(testSheet(), 2).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(testSheet(), 2).Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New(1).Encode(&buf); err == nil {
		t.Fatalf("expected an error for an empty sheet")
	}
}

func TestPublishUnevenFrames(t *testing.T) {
	c := New(1)
	c.Publish(stream.NewFrame(2))
	c.Publish(stream.NewFrame(5))
	if c.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", c.Rows())
	}
	if w := c.Image().Bounds().Dx(); w != 5 {
		t.Fatalf("expected width 5, got %d", w)
	}
}

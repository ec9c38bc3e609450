package preview

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledanim/stream"
)

type cell struct {
	x, y  int
	r     rune
	style tcell.Style
}

type recordingScreen struct {
	width, height int
	cells         []cell
	shows         int
}

func (s *recordingScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *recordingScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	s.cells = append(s.cells, cell{x, y, primary, style})
}

func (s *recordingScreen) Show() {
	s.shows++
}

func TestPublishWraps(t *testing.T) {
	f := stream.NewFrame(7)
	f.SetPixel(4, colorful.Color{R: 1})

	cases := []struct {
		name          string
		width, height int
		cells         int
		last          [2]int
	}{
		{"fits", 10, 1, 7, [2]int{6, 0}},
		{"wraps", 3, 3, 7, [2]int{0, 2}},
		{"clipped", 3, 2, 6, [2]int{2, 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			screen := &recordingScreen{width: c.width, height: c.height}
			if err := New(screen).Publish(f); err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if len(screen.cells) != c.cells {
				t.Fatalf("expected %d cells, got %d", c.cells, len(screen.cells))
			}
			last := screen.cells[len(screen.cells)-1]
			if last.x != c.last[0] || last.y != c.last[1] || last.r != pixelRune {
				t.Fatalf("unexpected last cell %+v", last)
			}
			if screen.shows != 1 {
				t.Fatalf("expected one Show, got %d", screen.shows)
			}
		})
	}
}

func TestPublishColour(t *testing.T) {
	f := stream.NewFrame(2)
	f.SetPixel(1, colorful.Color{R: 1, G: 0.5, B: 0})

	screen := &recordingScreen{width: 2, height: 1}
	if err := New(screen).Publish(f); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	want := tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 128, 0))
	if screen.cells[1].style != want {
		t.Fatalf("unexpected style for pixel 1")
	}
}

func TestPublishEmptyScreen(t *testing.T) {
	screen := &recordingScreen{}
	if err := New(screen).Publish(stream.NewFrame(3)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(screen.cells) != 0 || screen.shows != 0 {
		t.Fatalf("nothing should be drawn on a zero sized screen")
	}
}

func TestPublishSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(8, 2)

	if err := New(screen).Publish(stream.NewFrame(20)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

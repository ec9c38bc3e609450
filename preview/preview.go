// Package preview mirrors LED frames onto a terminal.
package preview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matt-g-everett/ledanim/stream"
)

const pixelRune = '█'

// Screen is the part of tcell.Screen a Terminal draws with.
type Screen interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// Terminal draws one cell per pixel, wrapping at the screen width. Pixels
// past the bottom of the screen are dropped.
type Terminal struct {
	screen Screen
}

// New creates an instance of a Terminal.
func New(screen Screen) *Terminal {
	t := new(Terminal)
	t.screen = screen
	return t
}

// Publish draws f.
func (t *Terminal) Publish(f *stream.Frame) error {
	width, height := t.screen.Size()
	if width <= 0 || height <= 0 {
		return nil
	}

	for i := 0; i < f.Len(); i++ {
		x, y := i%width, i/width
		if y >= height {
			break
		}
		r, g, b := f.Pixel(i).Clamped().RGB255()
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		t.screen.SetContent(x, y, pixelRune, nil, style)
	}
	t.screen.Show()
	return nil
}

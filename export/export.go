// Package export writes rendered frames out as PNG contact sheets.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/matt-g-everett/ledanim/stream"
	"golang.org/x/image/draw"
)

// ContactSheet collects published frames, one image row per frame.
type ContactSheet struct {
	scale int
	rows  [][]color.RGBA
	width int
}

// New creates an instance of a ContactSheet. Every pixel is drawn as a
// scale by scale block.
func New(scale int) *ContactSheet {
	if scale < 1 {
		scale = 1
	}
	c := new(ContactSheet)
	c.scale = scale
	return c
}

// Render publishes every frame of sheet into a new ContactSheet.
func Render(sheet stream.Sheet, scale int) *ContactSheet {
	c := New(scale)
	for i := 0; i < sheet.Len(); i++ {
		_ = c.Publish(sheet.Frame(i))
	}
	return c
}

// Publish appends f as a row.
func (c *ContactSheet) Publish(f *stream.Frame) error {
	row := make([]color.RGBA, f.Len())
	for i := range row {
		r, g, b := f.Pixel(i).Clamped().RGB255()
		row[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	c.rows = append(c.rows, row)
	if len(row) > c.width {
		c.width = len(row)
	}
	return nil
}

// Rows returns the number of frames collected.
func (c *ContactSheet) Rows() int {
	return len(c.rows)
}

// Image returns the sheet at its scaled size.
func (c *ContactSheet) Image() *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, c.width, len(c.rows)))
	for y, row := range c.rows {
		for x, px := range row {
			src.SetRGBA(x, y, px)
		}
	}
	if c.scale == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.width*c.scale, len(c.rows)*c.scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes the sheet to w as a PNG.
func (c *ContactSheet) Encode(w io.Writer) error {
	if len(c.rows) == 0 {
		return fmt.Errorf("contact sheet is empty")
	}
	return png.Encode(w, c.Image())
}

// Save writes the sheet to path as a PNG.
func (c *ContactSheet) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

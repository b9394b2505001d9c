package pattern

import (
	"fmt"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Picopixel capitals start 4 rows above the baseline, descenders end 1 row below it.
const (
	textRows     = 6
	textBaseline = 4
)

var textFont tinyfont.Fonter = &tinyfont.Picopixel

// bitDisplay collects tinyfont output. Any non-black pixel is on.
type bitDisplay struct {
	w, h int16
	grid [][]uint8
}

var _ drivers.Displayer = (*bitDisplay)(nil)

func newBitDisplay(w, h int16) *bitDisplay {
	d := &bitDisplay{w: w, h: h, grid: make([][]uint8, h)}
	for i := range d.grid {
		d.grid[i] = make([]uint8, w)
	}
	return d
}

func (d *bitDisplay) Size() (x, y int16) {
	return d.w, d.h
}

func (d *bitDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	if c.R|c.G|c.B != 0 {
		d.grid[y][x] = 1
	} else {
		d.grid[y][x] = 0
	}
}

func (d *bitDisplay) Display() error {
	return nil
}

// FromText renders text in a small proportional font into a 6 row pattern.
// Text wider than math.MaxInt16 pixels is rejected.
func FromText(name, text string) (Pattern, error) {
	if text == "" {
		return Pattern{}, fmt.Errorf("%w: %q has no text", ErrMalformed, name)
	}
	_, outbox := tinyfont.LineWidth(textFont, text)
	if outbox == 0 {
		return Pattern{}, fmt.Errorf("%w: %q renders to nothing", ErrMalformed, name)
	}
	if outbox > math.MaxInt16 {
		return Pattern{}, fmt.Errorf("%w: %q is %d pixels wide, max %d", ErrMalformed, name, outbox, math.MaxInt16)
	}
	d := newBitDisplay(int16(outbox), textRows)
	tinyfont.WriteLine(d, textFont, 0, textBaseline, text, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	return New(name, d.grid)
}

// Package matrix models a DMD style LED dot-matrix panel built from 32x16 modules.
//
// The frame buffer is a 1 bit image. Writers go through SetPixel, which is atomic per
// pixel; readers take whole frames with Snapshot, which copies under the read lock, so a
// concurrently running scan task never sees a half-written pixel or a torn frame.
package matrix

import (
	"fmt"
	"image"
	"sync"

	"github.com/aluedtke7/dmdanim/display"
	"periph.io/x/periph/devices/ssd1306/image1bit"
)

const (
	ModuleWidth  = 32
	ModuleHeight = 16
	MaxAcross    = 8
	MaxDown      = 4
)

type Panel struct {
	mu     sync.RWMutex
	across int
	down   int
	img    *image1bit.VerticalLSB
}

var _ display.Canvas = (*Panel)(nil)

// New returns a cleared panel of across x down modules.
func New(across, down int) (*Panel, error) {
	if across < 1 || across > MaxAcross {
		return nil, fmt.Errorf("matrix: modules across must be between 1 and %d, got %d", MaxAcross, across)
	}
	if down < 1 || down > MaxDown {
		return nil, fmt.Errorf("matrix: modules down must be between 1 and %d, got %d", MaxDown, down)
	}
	r := image.Rect(0, 0, across*ModuleWidth, down*ModuleHeight)
	return &Panel{across: across, down: down, img: image1bit.NewVerticalLSB(r)}, nil
}

func (p *Panel) Width() int              { return p.across * ModuleWidth }
func (p *Panel) Height() int             { return p.down * ModuleHeight }
func (p *Panel) Bounds() image.Rectangle { return p.img.Bounds() }

func (p *Panel) String() string {
	return fmt.Sprintf("matrix.Panel{%dx%d modules, %dx%d}", p.across, p.down, p.Width(), p.Height())
}

// SetPixel combines on with the current pixel according to mode.
func (p *Panel) SetPixel(col, row int, mode display.Mode, on bool) {
	if !(image.Point{X: col, Y: row}.In(p.img.Rect)) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := bool(p.img.BitAt(col, row))
	p.img.SetBit(col, row, image1bit.Bit(compose(mode, cur, on)))
}

func compose(mode display.Mode, cur, on bool) bool {
	switch mode {
	case display.Inverse:
		return !on
	case display.Toggle:
		return cur != on
	case display.Or:
		return cur || on
	case display.Nor:
		return cur && !on
	}
	return on
}

// Pixel reports whether the pixel is lit. Pixels outside the panel are off.
func (p *Panel) Pixel(col, row int) bool {
	if !(image.Point{X: col, Y: row}.In(p.img.Rect)) {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return bool(p.img.BitAt(col, row))
}

// Clear switches every pixel off, or on when normal is false.
func (p *Panel) Clear(normal bool) {
	var fill byte
	if !normal {
		fill = 0xFF
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.img.Pix {
		p.img.Pix[i] = fill
	}
}

// Lit counts the pixels that are on.
func (p *Panel) Lit() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, b := range p.img.Pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// Snapshot copies the current frame into dst and returns it. A nil dst, or one of a
// different size, is replaced by a newly allocated image.
func (p *Panel) Snapshot(dst *image1bit.VerticalLSB) *image1bit.VerticalLSB {
	if dst == nil || dst.Rect != p.img.Rect || len(dst.Pix) != len(p.img.Pix) {
		dst = image1bit.NewVerticalLSB(p.img.Rect)
	}
	p.mu.RLock()
	copy(dst.Pix, p.img.Pix)
	p.mu.RUnlock()
	return dst
}

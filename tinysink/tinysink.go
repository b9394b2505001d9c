// Package tinysink drives any TinyGo display driver from the LED panel frames.
package tinysink

import (
	"image"
	"image/color"

	"github.com/aluedtke7/dmdanim/display"
	"tinygo.org/x/drivers"
)

type Opts struct {
	Offset image.Point // where the panel's top left pixel lands on the device
	On     color.RGBA
	Off    color.RGBA
}

var DefaultOpts = Opts{
	On:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Off: color.RGBA{A: 0xFF},
}

type Sink struct {
	dev  drivers.Displayer
	opts Opts
	last []bool
}

var _ display.Sink = (*Sink)(nil)

func New(dev drivers.Displayer, opts Opts) *Sink {
	return &Sink{dev: dev, opts: opts}
}

// Refresh writes the pixels that changed since the last frame and flushes the device.
// Pixels falling outside the device are skipped.
func (s *Sink) Refresh(frame image.Image) error {
	b := frame.Bounds()
	w, h := s.dev.Size()
	n := b.Dx() * b.Dy()
	first := len(s.last) != n
	if first {
		s.last = make([]bool, n)
	}
	for y := 0; y < b.Dy(); y++ {
		dy := s.opts.Offset.Y + y
		if dy < 0 || dy >= int(h) {
			continue
		}
		for x := 0; x < b.Dx(); x++ {
			dx := s.opts.Offset.X + x
			if dx < 0 || dx >= int(w) {
				continue
			}
			r, _, _, _ := frame.At(b.Min.X+x, b.Min.Y+y).RGBA()
			on := r != 0
			i := y*b.Dx() + x
			if !first && s.last[i] == on {
				continue
			}
			s.last[i] = on
			c := s.opts.Off
			if on {
				c = s.opts.On
			}
			s.dev.SetPixel(int16(dx), int16(dy), c)
		}
	}
	return s.dev.Display()
}

func (s *Sink) Close() {
	s.last = nil
}

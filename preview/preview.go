// Package preview shows the LED panel in a desktop window.
//
// Preview is a TinyGo style display: it implements drivers.Displayer over an RGBA
// frame buffer, so anything that can drive a TinyGo display can drive the window.
package preview

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"tinygo.org/x/drivers"
)

var (
	LedOn  = color.RGBA{R: 0xFF, G: 0x30, B: 0x10, A: 0xFF}
	LedOff = color.RGBA{R: 0x20, G: 0x08, B: 0x04, A: 0xFF}
)

// Preview is safe for use from any goroutine; Run must be called from the main goroutine.
type Preview struct {
	mu     sync.Mutex
	back   *image.RGBA
	front  *image.RGBA
	dirty  bool
	closed bool
	scale  int

	img *ebiten.Image
}

var _ drivers.Displayer = (*Preview)(nil)

func New(bounds image.Rectangle, scale int) *Preview {
	if scale < 1 {
		scale = 1
	}
	r := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	p := &Preview{back: image.NewRGBA(r), front: image.NewRGBA(r), scale: scale}
	for i := 0; i < len(p.back.Pix); i += 4 {
		p.back.Pix[i], p.back.Pix[i+1], p.back.Pix[i+2], p.back.Pix[i+3] = LedOff.R, LedOff.G, LedOff.B, LedOff.A
	}
	copy(p.front.Pix, p.back.Pix)
	return p
}

func (p *Preview) Size() (x, y int16) {
	return int16(p.back.Rect.Dx()), int16(p.back.Rect.Dy())
}

func (p *Preview) SetPixel(x, y int16, c color.RGBA) {
	p.mu.Lock()
	p.back.SetRGBA(int(x), int(y), c)
	p.mu.Unlock()
}

// Display publishes the pixels set so far to the window.
func (p *Preview) Display() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("preview: window closed")
	}
	copy(p.front.Pix, p.back.Pix)
	p.dirty = true
	return nil
}

// Close makes Run return at the next tick.
func (p *Preview) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Preview) Update() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ebiten.Termination
	}
	return nil
}

func (p *Preview) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.img == nil {
		p.img = ebiten.NewImage(p.front.Rect.Dx(), p.front.Rect.Dy())
		p.dirty = true
	}
	if p.dirty {
		p.img.WritePixels(p.front.Pix)
		p.dirty = false
	}
	screen.DrawImage(p.img, nil)
}

func (p *Preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.front.Rect.Dx(), p.front.Rect.Dy()
}

// Run opens the window and blocks until it is closed by the user or by Close.
func (p *Preview) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(p.front.Rect.Dx()*p.scale, p.front.Rect.Dy()*p.scale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(p)
	p.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

package oled

import (
	"image"
	"image/draw"
	"sync"

	"github.com/aluedtke7/dmdanim/display"
	"github.com/antigloss/go/logger"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/devices/ssd1306"
	"periph.io/x/periph/devices/ssd1306/image1bit"
	"periph.io/x/periph/host"
)

const captionHeight = 16

const (
	cmdClear = iota
	cmdFrame
	cmdCaption
)

// Oled mirrors the LED panel on a SSD1306 screen, scaled up, with a caption line below.
type Oled struct {
	dev     *ssd1306.Dev
	bus     i2c.BusCloser
	img     *image1bit.VerticalLSB
	cmdChan chan command
	done    chan struct{}

	mu      sync.Mutex
	frame   *image1bit.VerticalLSB
	caption string
}

var _ display.Sink = (*Oled)(nil)

type command struct {
	cmd  int
	text string
}

// scaleFor returns the largest integer zoom that fits frame into screen above the caption.
func scaleFor(frame, screen image.Rectangle) int {
	if frame.Dx() == 0 || frame.Dy() == 0 {
		return 1
	}
	sx := screen.Dx() / frame.Dx()
	sy := (screen.Dy() - captionHeight) / frame.Dy()
	if sy < sx {
		sx = sy
	}
	if sx < 1 {
		return 1
	}
	return sx
}

// render paints frame (may be nil) and caption into dst.
func render(dst *image1bit.VerticalLSB, frame image.Image, caption string) {
	for i := range dst.Pix {
		dst.Pix[i] = 0
	}
	if frame != nil {
		b := frame.Bounds()
		s := scaleFor(b, dst.Bounds())
		left := (dst.Bounds().Dx() - b.Dx()*s) / 2
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if r, _, _, _ := frame.At(x, y).RGBA(); r == 0 {
					continue
				}
				cell := image.Rect(left+(x-b.Min.X)*s, (y-b.Min.Y)*s, left+(x-b.Min.X+1)*s, (y-b.Min.Y+1)*s)
				draw.Draw(dst, cell, &image.Uniform{C: image1bit.On}, image.Point{}, draw.Src)
			}
		}
	}
	if caption != "" {
		drawer := font.Drawer{
			Dst:  dst,
			Src:  &image.Uniform{C: image1bit.On},
			Face: basicfont.Face7x13,
			Dot:  fixed.P(0, dst.Bounds().Dy()-3),
		}
		drawer.DrawString(caption)
	}
}

func (o *Oled) show() {
	o.mu.Lock()
	var frame image.Image
	if o.frame != nil {
		frame = o.frame
	}
	render(o.img, frame, o.caption)
	o.mu.Unlock()
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		logger.Error(err.Error())
	}
}

func (o *Oled) commandHandler() {
	for {
		select {
		case <-o.done:
			return
		case c := <-o.cmdChan:
			switch c.cmd {
			case cmdClear:
				o.mu.Lock()
				o.frame = nil
				o.caption = ""
				o.mu.Unlock()
			case cmdCaption:
				o.mu.Lock()
				o.caption = c.text
				o.mu.Unlock()
			}
			o.show()
		}
	}
}

// Refresh copies frame and schedules a redraw. Frames arriving while the bus is busy are dropped.
func (o *Oled) Refresh(frame image.Image) error {
	o.mu.Lock()
	if o.frame == nil || o.frame.Bounds() != frame.Bounds() {
		o.frame = image1bit.NewVerticalLSB(frame.Bounds())
	}
	draw.Draw(o.frame, frame.Bounds(), frame, frame.Bounds().Min, draw.Src)
	o.mu.Unlock()
	select {
	case o.cmdChan <- command{cmd: cmdFrame}:
	default:
	}
	return nil
}

func (o *Oled) Caption(text string) {
	o.cmdChan <- command{cmd: cmdCaption, text: text}
}

func (o *Oled) Clear() {
	o.cmdChan <- command{cmd: cmdClear}
}

func (o *Oled) Close() {
	if o.bus != nil {
		close(o.done)
		_ = o.dev.Halt()
		_ = o.bus.Close()
		o.bus = nil
	}
}

/**
Initializes the OLED Display on the first available I²C bus
*/
func New() (*Oled, error) {
	logger.Trace("OLED initializing...")
	o := &Oled{cmdChan: make(chan command), done: make(chan struct{})}

	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		logger.Error(err.Error())
		return nil, err
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		logger.Error(err.Error())
		return nil, err
	}
	o.bus = bus

	// Open a handle to a ssd1306 connected on the I²C bus:
	o.dev, err = ssd1306.NewI2C(o.bus, &ssd1306.DefaultOpts)
	if err != nil {
		logger.Error(err.Error())
		_ = o.bus.Close()
		return nil, err
	}

	o.img = image1bit.NewVerticalLSB(o.dev.Bounds())

	go o.commandHandler()

	o.Clear()
	return o, nil
}

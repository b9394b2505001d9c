package oled

import (
	"image"
	"testing"

	"periph.io/x/periph/devices/ssd1306/image1bit"
)

func TestScaleFor(t *testing.T) {
	screen := image.Rect(0, 0, 128, 64)
	tests := []struct {
		name  string
		frame image.Rectangle
		want  int
	}{
		{"2x1 panel", image.Rect(0, 0, 64, 16), 2},
		{"1x1 panel", image.Rect(0, 0, 32, 16), 3},
		{"4x1 panel", image.Rect(0, 0, 128, 16), 1},
		{"too big", image.Rect(0, 0, 256, 64), 1},
		{"empty", image.Rect(0, 0, 0, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleFor(tt.frame, screen); got != tt.want {
				t.Errorf("scaleFor(%v) = %d, want %d", tt.frame, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	frame := image1bit.NewVerticalLSB(image.Rect(0, 0, 64, 16))
	frame.SetBit(0, 0, image1bit.On)
	frame.SetBit(63, 15, image1bit.On)

	dst := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	dst.SetBit(100, 40, image1bit.On)
	render(dst, frame, "")

	// scale 2: pixel (0,0) covers 0..1, pixel (63,15) covers 126..127 x 30..31
	for _, p := range []image.Point{{0, 0}, {1, 1}, {126, 30}, {127, 31}} {
		if !dst.BitAt(p.X, p.Y) {
			t.Errorf("pixel %v should be on", p)
		}
	}
	for _, p := range []image.Point{{2, 0}, {0, 2}, {125, 31}, {100, 40}} {
		if dst.BitAt(p.X, p.Y) {
			t.Errorf("pixel %v should be off", p)
		}
	}
}

func TestRenderCaption(t *testing.T) {
	dst := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	render(dst, nil, "blink")
	lit := 0
	for y := 48; y < 64; y++ {
		for x := 0; x < 128; x++ {
			if dst.BitAt(x, y) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("caption was not drawn")
	}
	for y := 0; y < 48; y++ {
		for x := 0; x < 128; x++ {
			if dst.BitAt(x, y) {
				t.Fatalf("pixel %d,%d above the caption is on", x, y)
			}
		}
	}
}

func TestCommandCodes(t *testing.T) {
	for want, got := range []int{cmdClear, cmdFrame, cmdCaption} {
		if got != want {
			t.Errorf("command %d has code %d", want, got)
		}
	}
}

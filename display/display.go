package display

import "image"

// Mode selects how a new pixel value is combined with the one already on the canvas.
type Mode int

const (
	Normal  Mode = iota // replace
	Inverse             // replace with the negated value
	Toggle              // flip the pixel when value is on
	Or                  // set when value is on, keep otherwise
	Nor                 // clear when value is on, keep otherwise
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Inverse:
		return "inverse"
	case Toggle:
		return "toggle"
	case Or:
		return "or"
	case Nor:
		return "nor"
	}
	return "unknown"
}

// Canvas is the write side of a binary pixel surface. Writes outside the surface are ignored.
type Canvas interface {
	SetPixel(col, row int, mode Mode, on bool)
}

// Sink receives complete frames from the scan task.
type Sink interface {
	Refresh(frame image.Image) error
	Close()
}

// Interface definition for the LCD status panel
type Display interface {
	Backlight(on bool)
	Clear()
	Close()
	GetCharsPerLine() int
	PrintLine(line int, text string)
}

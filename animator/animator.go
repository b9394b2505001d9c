// Package animator blits patterns onto a canvas as blinking or scrolling animations.
//
// Both animators block the calling goroutine until every cycle has run. Patterns are
// laid out leftward from the origin column: pattern column j lands on canvas column
// colStart-shift-j. Every call validates its geometry before the first write, so a
// rejected call leaves the canvas untouched, and every completed call leaves the cells
// it touched switched off.
package animator

import (
	"errors"
	"fmt"
	"time"

	"github.com/aluedtke7/dmdanim/display"
	"github.com/aluedtke7/dmdanim/pattern"
)

var (
	ErrInvalidGeometry   = errors.New("animator: invalid geometry")
	ErrInvalidCycleCount = errors.New("animator: invalid cycle count")
)

// Sleeper blocks for the given duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

type SleeperFunc func(d time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// Easing controls the hold time of the scrolling animator. The hold starts at Base,
// shrinks by Decay after every frame as long as it is not below Floor, and is reset
// to Base on wrap-around. All values are milliseconds.
type Easing struct {
	Base  float64
	Decay float64
	Floor float64
}

var DefaultEasing = Easing{Base: 35, Decay: 0.6, Floor: 12}

// Frame describes one drawn frame. It is passed to the trace hook.
type Frame struct {
	Shift int
	Hold  time.Duration
	Cycle int // remaining cycles, including the running one
}

type Option func(*Animator)

func WithSleeper(s Sleeper) Option {
	return func(a *Animator) { a.sleeper = s }
}

func WithEasing(e Easing) Option {
	return func(a *Animator) { a.easing = e }
}

func WithTrace(f func(Frame)) Option {
	return func(a *Animator) { a.trace = f }
}

// Animator draws on a canvas of width x height pixels. It keeps no state between calls.
type Animator struct {
	canvas  display.Canvas
	width   int
	height  int
	sleeper Sleeper
	easing  Easing
	trace   func(Frame)
}

func New(canvas display.Canvas, width, height int, opts ...Option) *Animator {
	a := &Animator{
		canvas:  canvas,
		width:   width,
		height:  height,
		sleeper: SleeperFunc(time.Sleep),
		easing:  DefaultEasing,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Wrap is the shift at which the scrolling animator starts over.
func (a *Animator) Wrap() int {
	return a.width - 1
}

// Region places the first RowMax x ColMax cells of a pattern on the canvas.
type Region struct {
	Pattern  pattern.Pattern
	RowStart int
	ColStart int
	RowMax   int
	ColMax   int
}

type ScrollParams struct {
	Region
	Shift  int // initial shift, 0 <= Shift < Wrap()
	Cycles int
}

type BlinkParams struct {
	Region
	Delay  time.Duration
	Cycles int
}

func (a *Animator) checkRegion(r Region) error {
	p := r.Pattern
	if r.RowMax < 1 || r.ColMax < 1 {
		return fmt.Errorf("%w: empty region %dx%d", ErrInvalidGeometry, r.RowMax, r.ColMax)
	}
	if r.RowMax > p.Rows() || r.ColMax > p.Cols() {
		return fmt.Errorf("%w: region %dx%d exceeds pattern %v", ErrInvalidGeometry, r.RowMax, r.ColMax, p)
	}
	if r.RowStart < 0 || r.RowStart+r.RowMax > a.height {
		return fmt.Errorf("%w: rows %d..%d outside canvas height %d", ErrInvalidGeometry, r.RowStart, r.RowStart+r.RowMax-1, a.height)
	}
	if r.ColStart < 0 || r.ColStart >= a.width {
		return fmt.Errorf("%w: origin column %d outside canvas width %d", ErrInvalidGeometry, r.ColStart, a.width)
	}
	return nil
}

func checkCycles(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCycleCount, n)
	}
	return nil
}

// blit writes the region at the given shift. Columns left of the canvas are skipped.
func (a *Animator) blit(r Region, shift int, erase bool) {
	for ri := 0; ri < r.RowMax; ri++ {
		row := r.RowStart + ri
		col := r.ColStart - shift
		for ci := 0; ci < r.ColMax; ci, col = ci+1, col-1 {
			if col < 0 {
				break
			}
			on := false
			if !erase {
				on = r.Pattern.At(ri, ci)
			}
			a.canvas.SetPixel(col, row, display.Normal, on)
		}
	}
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Scroll slides the pattern leftward one column per frame. A cycle ends when the shift
// reaches Wrap(); the shift then restarts at 0 and the hold time at the easing base.
func (a *Animator) Scroll(p ScrollParams) error {
	if err := checkCycles(p.Cycles); err != nil {
		return err
	}
	if a.width < 2 {
		return fmt.Errorf("%w: canvas width %d too small to scroll", ErrInvalidGeometry, a.width)
	}
	if err := a.checkRegion(p.Region); err != nil {
		return err
	}
	wrap := a.Wrap()
	if p.Shift < 0 || p.Shift >= wrap {
		return fmt.Errorf("%w: shift %d outside [0, %d)", ErrInvalidGeometry, p.Shift, wrap)
	}

	shift, cycle := p.Shift, p.Cycles
	step := a.easing.Base
	for cycle > 0 {
		a.blit(p.Region, shift, false)
		hold := millis(step)
		if a.trace != nil {
			a.trace(Frame{Shift: shift, Hold: hold, Cycle: cycle})
		}
		a.sleeper.Sleep(hold)
		if step >= a.easing.Floor {
			step -= a.easing.Decay
		}
		a.blit(p.Region, shift, true)

		shift++
		if shift == wrap {
			shift = 0
			step = a.easing.Base
			cycle--
		}
	}
	return nil
}

// Blink shows the pattern at a fixed position: draw, hold, erase, hold, once per cycle.
func (a *Animator) Blink(p BlinkParams) error {
	if err := checkCycles(p.Cycles); err != nil {
		return err
	}
	if err := a.checkRegion(p.Region); err != nil {
		return err
	}
	if p.ColStart-p.ColMax+1 < 0 {
		return fmt.Errorf("%w: columns %d..%d outside canvas", ErrInvalidGeometry, p.ColStart-p.ColMax+1, p.ColStart)
	}
	for cycle := p.Cycles; cycle > 0; cycle-- {
		a.blit(p.Region, 0, false)
		if a.trace != nil {
			a.trace(Frame{Hold: p.Delay, Cycle: cycle})
		}
		a.sleeper.Sleep(p.Delay)
		a.blit(p.Region, 0, true)
		a.sleeper.Sleep(p.Delay)
	}
	return nil
}

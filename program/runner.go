package program

import (
	"errors"
	"fmt"

	"github.com/aluedtke7/dmdanim/animator"
	"github.com/aluedtke7/dmdanim/pattern"
	"github.com/antigloss/go/logger"
)

// Clearer wipes the whole canvas.
type Clearer interface {
	Clear(normal bool)
}

// Runner executes programs step by step on one canvas. It is not safe for concurrent use.
type Runner struct {
	Animator *animator.Animator
	Canvas   Clearer
	Patterns *pattern.Registry
	Sleeper  animator.Sleeper
	Feed     func()     // called before every step, e.g. to feed the watchdog
	OnStep   func(Step) // called before every step

	texts map[string]string
}

func (r *Runner) Run(p Program) error {
	for _, s := range p.Steps {
		if r.Feed != nil {
			r.Feed()
		}
		if r.OnStep != nil {
			r.OnStep(s)
		}
		logger.Trace("step: %v", s)
		if err := r.runStep(s); err != nil {
			if s.Line > 0 {
				return fmt.Errorf("program: line %d: %w", s.Line, err)
			}
			return fmt.Errorf("program: %v: %w", s, err)
		}
	}
	return nil
}

func (r *Runner) runStep(s Step) error {
	switch s.Kind {
	case Clear:
		r.Canvas.Clear(true)
		return nil
	case Pause:
		r.Sleeper.Sleep(s.Delay)
		return nil
	case Text:
		return r.registerText(s.Pattern, s.Text)
	}

	p, err := r.Patterns.Lookup(s.Pattern)
	if err != nil {
		return err
	}
	region := animator.Region{
		Pattern:  p,
		RowStart: s.RowStart,
		ColStart: s.ColStart,
		RowMax:   s.RowMax,
		ColMax:   s.ColMax,
	}
	if region.RowMax == 0 {
		region.RowMax = p.Rows()
	}
	if region.ColMax == 0 {
		region.ColMax = p.Cols()
	}
	if s.Kind == Blink {
		return r.Animator.Blink(animator.BlinkParams{Region: region, Delay: s.Delay, Cycles: s.Cycles})
	}
	return r.Animator.Scroll(animator.ScrollParams{Region: region, Shift: s.Shift, Cycles: s.Cycles})
}

// registerText adds a text pattern once. Re-running a program registers the same text again,
// which is not an error.
func (r *Runner) registerText(name, text string) error {
	if prev, ok := r.texts[name]; ok {
		if prev == text {
			return nil
		}
		return fmt.Errorf("%w: %q already holds %q", pattern.ErrDuplicate, name, prev)
	}
	p, err := pattern.FromText(name, text)
	if err != nil {
		return err
	}
	if err := r.Patterns.Register(p); err != nil {
		if errors.Is(err, pattern.ErrDuplicate) {
			logger.Warn("text pattern %q shadows a registered pattern", name)
		}
		return err
	}
	if r.texts == nil {
		r.texts = map[string]string{}
	}
	r.texts[name] = text
	return nil
}

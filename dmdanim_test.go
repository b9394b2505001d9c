package main

import (
	"os"
	"testing"
	"time"

	"github.com/aluedtke7/dmdanim/animator"
	"github.com/aluedtke7/dmdanim/matrix"
	"github.com/aluedtke7/dmdanim/pattern"
	"github.com/aluedtke7/dmdanim/program"
	"github.com/antigloss/go/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "dmdanim-test")
	if err != nil {
		panic(err)
	}
	_ = logger.Init(dir, 10, 2, 10, false)
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestClamp(t *testing.T) {
	v := 0
	clamp(&v, 1, 8)
	if v != 1 {
		t.Error("clamp low", v)
	}
	v = 20
	clamp(&v, 1, 8)
	if v != 8 {
		t.Error("clamp high", v)
	}
	v = 5
	clamp(&v, 1, 8)
	if v != 5 {
		t.Error("clamp inside", v)
	}
}

func TestAnimate(t *testing.T) {
	panel, _ := matrix.New(2, 1)
	var slept time.Duration
	sleeper := animator.SleeperFunc(func(d time.Duration) { slept += d })
	steps := 0
	runner := &program.Runner{
		Animator: animator.New(panel, panel.Width(), panel.Height(), animator.WithSleeper(sleeper)),
		Canvas:   panel,
		Patterns: pattern.Builtin(),
		Sleeper:  sleeper,
		OnStep:   func(program.Step) { steps++ },
	}
	if err := animate(runner, program.Default(), 2); err != nil {
		t.Fatal(err)
	}
	if steps != 2*len(program.Default().Steps) {
		t.Error("steps", steps)
	}
	if panel.Lit() != 0 {
		t.Error("panel not erased", panel.Lit())
	}
	if slept < 2*(6*time.Second+4*time.Second) {
		t.Error("blink and pause holds missing", slept)
	}
}

func TestFrameTraceFeedsEveryFrame(t *testing.T) {
	off := false
	debug = &off
	disp = nil
	panel, _ := matrix.New(2, 1)
	var slept time.Duration
	feeds := 0
	anim := animator.New(panel, panel.Width(), panel.Height(),
		animator.WithSleeper(animator.SleeperFunc(func(d time.Duration) { slept += d })),
		animator.WithTrace(frameTrace(func() { feeds++ })))

	arrow, _ := pattern.Builtin().Lookup("arrow")
	// one step holding the panel for 10s
	err := anim.Blink(animator.BlinkParams{
		Region: animator.Region{Pattern: arrow, RowStart: 4, ColStart: 63, RowMax: 7, ColMax: 4},
		Delay:  time.Second,
		Cycles: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if feeds != 5 {
		t.Error("watchdog feeds during a 10s blink", feeds)
	}
	if slept != 10*time.Second {
		t.Error("blink hold", slept)
	}
}

func TestStepCaption(t *testing.T) {
	if s := stepCaption(program.Step{Kind: program.Blink, Pattern: "excmark"}); s != "blink excmark" {
		t.Error("blink caption", s)
	}
	if s := stepCaption(program.Step{Kind: program.Pause, Delay: time.Second}); s != "pause" {
		t.Error("pause caption", s)
	}
}

func TestPrintStatusWithoutDisplay(t *testing.T) {
	disp = nil
	printStatus(0, "no lcd attached")
	if lastStatusLine[0] != "" {
		t.Error("status cached without a display", lastStatusLine[0])
	}
}

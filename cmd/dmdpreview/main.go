// Command dmdpreview runs a panel program on the desktop, showing the panel in a window.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/aluedtke7/dmdanim/animator"
	"github.com/aluedtke7/dmdanim/matrix"
	"github.com/aluedtke7/dmdanim/pattern"
	"github.com/aluedtke7/dmdanim/preview"
	"github.com/aluedtke7/dmdanim/program"
	"github.com/aluedtke7/dmdanim/scan"
	"github.com/aluedtke7/dmdanim/tinysink"

	"github.com/antigloss/go/logger"
)

var (
	across   = flag.Int("across", 2, "number of 32x16 modules side by side (1...8)")
	down     = flag.Int("down", 1, "number of 32x16 modules stacked (1...4)")
	scale    = flag.Int("scale", 10, "window pixels per LED (1...40)")
	scanMs   = flag.Int("scan", 16, "scan period in ms (1ms...1000ms)")
	loops    = flag.Int("loops", 0, "number of program passes, 0 runs forever")
	progFile = flag.String("program", "", "program file, empty for the built-in program")
	text     = flag.String("text", "", "text banner scrolled after each pass")
	debug    = flag.Bool("debug", false, "set to log every step")
)

func clamp(v *int, lo, hi int) {
	if *v < lo {
		*v = lo
	}
	if *v > hi {
		*v = hi
	}
}

func main() {
	flag.Parse()
	clamp(across, 1, matrix.MaxAcross)
	clamp(down, 1, matrix.MaxDown)
	clamp(scale, 1, 40)
	clamp(scanMs, 1, 1000)

	logDir := filepath.Join(os.TempDir(), "dmdpreview")
	_ = os.MkdirAll(logDir, os.ModePerm)
	_ = logger.Init(logDir, 10, 2, 10, *debug)

	panel, err := matrix.New(*across, *down)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	registry := pattern.Builtin()
	prog, err := program.Load(*progFile)
	if err != nil {
		logger.Error("Couldn't load program: %s", err)
		os.Exit(1)
	}
	if *text != "" {
		if err := prog.AddBanner(registry, *text, 4, panel.Width()-1); err != nil {
			logger.Error(err.Error())
		}
	}

	win := preview.New(panel.Bounds(), *scale)
	sink := tinysink.New(win, tinysink.Opts{On: preview.LedOn, Off: preview.LedOff})
	scanner := scan.New(panel, time.Duration(*scanMs)*time.Millisecond, sink)
	scanner.Start()

	runner := &program.Runner{
		Animator: animator.New(panel, panel.Width(), panel.Height()),
		Canvas:   panel,
		Patterns: registry,
		Sleeper:  animator.SleeperFunc(time.Sleep),
	}
	done := make(chan error, 1)
	go func() {
		var err error
		for pass := 1; err == nil && (*loops == 0 || pass <= *loops); pass++ {
			err = runner.Run(prog)
		}
		done <- err
		win.Close()
	}()

	// the window owns the main goroutine until it is closed
	if err := win.Run("dmdpreview " + panel.String()); err != nil {
		logger.Error(err.Error())
	}
	scanner.Stop()
	select {
	case err := <-done:
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	default:
	}
}
